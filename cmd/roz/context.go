package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bivory/roz/internal/state"
)

// timeLayout renders stored UTC timestamps for display.
const timeLayout = "2006-01-02T15:04:05Z"

// contextPromptLimit caps prompt lines shown by the context command.
const contextPromptLimit = 200

var contextCmd = &cobra.Command{
	Use:   "context <session_id>",
	Short: "[Agent] Show user prompts for review. Used by the roz:roz reviewer agent.",
	Long: `Show the session's review context: prompts, review state, and the gate
trigger if one fired. The roz:roz reviewer reads this to understand what
the user asked for.`,
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

		printSessionContext(s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contextCmd)
}

func printSessionContext(s *state.SessionState) {
	fmt.Printf("Session: %s\n", s.SessionID)
	fmt.Printf("Created: %s\n", s.CreatedAt.UTC().Format(timeLayout))
	fmt.Printf("Updated: %s\n", s.UpdatedAt.UTC().Format(timeLayout))
	fmt.Println()

	fmt.Printf("Review enabled: %t\n", s.Review.Enabled)
	fmt.Printf("Decision: %s\n", formatDecision(&s.Review.Decision))
	fmt.Printf("Block count: %d\n", s.Review.BlockCount)
	fmt.Println()

	if trigger := s.Review.GateTrigger; trigger != nil {
		printGateTrigger(trigger)
	}

	if len(s.Review.UserPrompts) == 0 {
		fmt.Println("User prompts: (none)")
		return
	}
	fmt.Println("User prompts:")
	for i, prompt := range s.Review.UserPrompts {
		fmt.Printf("[%d] %s\n", i+1, truncatePrompt(prompt, contextPromptLimit))
	}
}

// formatDecision renders a decision for the context header.
func formatDecision(d *state.Decision) string {
	switch d.Type {
	case state.DecisionComplete:
		return fmt.Sprintf("Complete - %s", d.Summary)
	case state.DecisionIssues:
		return fmt.Sprintf("Issues - %s", d.Summary)
	default:
		return "Pending"
	}
}

func printGateTrigger(trigger *state.GateTrigger) {
	fmt.Println("Gate trigger:")
	fmt.Printf("  Tool: %s\n", trigger.ToolName)
	fmt.Printf("  Pattern: %s\n", trigger.PatternMatched)
	fmt.Printf("  Time: %s\n", trigger.TriggeredAt.UTC().Format(timeLayout))
	fmt.Println("  Input:")

	inputJSON, err := json.MarshalIndent(trigger.ToolInput.Value, "", "  ")
	if err != nil {
		inputJSON = []byte("null")
	}
	for _, line := range strings.Split(string(inputJSON), "\n") {
		fmt.Printf("    %s\n", line)
	}
	if trigger.ToolInput.Truncated && trigger.ToolInput.OriginalSize > 0 {
		fmt.Printf("    (truncated, original size: %d bytes)\n", trigger.ToolInput.OriginalSize)
	}
	fmt.Println()
}

// truncatePrompt shortens a prompt to its first line, capping it at maxLen
// runes and marking elided content.
func truncatePrompt(prompt string, maxLen int) string {
	firstLine := prompt
	if i := strings.IndexByte(prompt, '\n'); i >= 0 {
		firstLine = prompt[:i]
	}

	runes := []rune(firstLine)
	switch {
	case len(runes) > maxLen:
		return string(runes[:maxLen]) + "..."
	case strings.Contains(prompt, "\n"):
		return firstLine + " [...]"
	default:
		return firstLine
	}
}
