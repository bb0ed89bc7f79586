package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var debugOutput string

var debugCmd = &cobra.Command{
	Use:   "debug <session_id>",
	Short: "[User] Show full session state for debugging",
	Long: `Dump the complete stored state of a session: review status, decision
history, attempts, and the trace. The output is the session file as roz
sees it after parsing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		s, err := loadSession(store, args[0])
		if err != nil {
			return err
		}

		if debugOutput == "yaml" {
			return yaml.NewEncoder(os.Stdout).Encode(s)
		}

		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().StringVarP(&debugOutput, "output", "o", "json", "Output format: json, yaml")
}
