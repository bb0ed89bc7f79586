package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bivory/roz/internal/hooks"
)

var (
	decideMessage  string
	decideOpinions string
)

var decideCmd = &cobra.Command{
	Use:   "decide <session_id> <decision> <summary>",
	Short: "[Agent] Post a review decision. Used by the roz:roz reviewer agent.",
	Long: `Post a COMPLETE or ISSUES decision for a session.

The decision releases (COMPLETE) or re-blocks (ISSUES) the session's stop
hook. ISSUES should carry a --message telling the agent what to fix.

Examples:
  roz decide abc-123 COMPLETE "All changes verified"
  roz decide abc-123 ISSUES "Tests missing" --message "Add tests for the retry path"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}

		kind, err := hooks.ApplyDecision(store, cfg, hooks.DecideRequest{
			SessionID: args[0],
			Kind:      args[1],
			Summary:   args[2],
			Message:   decideMessage,
			Opinions:  decideOpinions,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Decision recorded: %s for session %s\n", kind, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVarP(&decideMessage, "message", "m", "", "Message to agent (required for ISSUES)")
	decideCmd.Flags().StringVarP(&decideOpinions, "opinions", "o", "", "Record of second opinions obtained (optional, for COMPLETE)")
}
