package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bivory/roz/internal/storage"
)

var (
	listLimit  int
	listOutput string
)

// listPromptPreviewLen caps the first-prompt column in the session table.
const listPromptPreviewLen = 50

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "[User] List recent sessions",
	Long: `List recent sessions with their IDs, creation time, and first prompt.

Sessions are listed newest first. Corrupt session files are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		sessions, err := store.ListSessions(listLimit)
		if err != nil {
			return err
		}

		switch listOutput {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(sessions)
		default:
			printSessionTable(sessions, store.BasePath())
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "Maximum number of sessions to show")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json, yaml")
}

func printSessionTable(sessions []storage.SessionSummary, storagePath string) {
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		fmt.Println()
		fmt.Printf("Sessions are stored in: %s\n", storagePath)
		return
	}

	rule := strings.Repeat("─", 90)

	fmt.Printf("%-38s %-20s %s\n", "Session ID", "Created", "First Prompt")
	fmt.Println(rule)

	for _, summary := range sessions {
		created := summary.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("%-38s %-20s %s\n", summary.SessionID, created, formatPromptPreview(summary.FirstPrompt))
	}

	fmt.Println(rule)
	fmt.Printf("Showing %d session(s)\n", len(sessions))
}

// formatPromptPreview reduces a prompt to its first line, truncated for the
// table column.
func formatPromptPreview(prompt string) string {
	if prompt == "" {
		return "(no prompt)"
	}
	firstLine := prompt
	if i := strings.IndexByte(prompt, '\n'); i >= 0 {
		firstLine = prompt[:i]
	}
	if runes := []rune(firstLine); len(runes) > listPromptPreviewLen {
		return string(runes[:listPromptPreviewLen]) + "..."
	}
	return firstLine
}
