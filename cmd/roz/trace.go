package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bivory/roz/internal/state"
)

var traceVerbose bool

var traceCmd = &cobra.Command{
	Use:   "trace <session_id>",
	Short: "[User] Show trace events for a session",
	Long: `Show the trace events recorded for a session, in order.

With --verbose, each event's payload is pretty-printed below it.`,
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

		return printTrace(s, traceVerbose)
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().BoolVarP(&traceVerbose, "verbose", "v", false, "Show event payloads")
}

func printTrace(s *state.SessionState, verbose bool) error {
	fmt.Printf("Session: %s\n", s.SessionID)
	fmt.Printf("Created: %s\n", s.CreatedAt.UTC().Format(timeLayout))
	fmt.Printf("Events: %d\n", len(s.Trace))
	fmt.Println()

	if len(s.Trace) == 0 {
		fmt.Println("(no trace events)")
		return nil
	}

	for i, event := range s.Trace {
		fmt.Printf("[%3d] %s %s\n", i+1, event.Timestamp.UTC().Format("15:04:05"), eventTypeName(event.EventType))

		if verbose {
			payload, err := json.MarshalIndent(event.Payload, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal payload: %w", err)
			}
			for _, line := range strings.Split(string(payload), "\n") {
				fmt.Printf("      %s\n", line)
			}
			fmt.Println()
		}
	}

	return nil
}

// eventTypeName renders a snake_case event type as CamelCase for display,
// e.g. "gate_blocked" becomes "GateBlocked".
func eventTypeName(t state.EventType) string {
	parts := strings.Split(string(t), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "")
}
