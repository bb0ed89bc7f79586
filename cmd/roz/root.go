package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "roz",
	Short: "Quality gate for Claude Code",
	Long: `roz is a quality gate that interposes on Claude Code lifecycle hooks.

Opt in by starting a prompt with #roz. When the agent tries to stop,
roz blocks it until the roz:roz reviewer agent has posted a verdict.
Gated tools (issue closes, PR merges) can require review before they run.

Hook Commands (wired into Claude Code, not run by hand):
  hook         Run a lifecycle hook (JSON stdin/stdout)

Agent Commands (used by the roz:roz reviewer):
  decide       Post a review decision
  context      Show user prompts for review

User Commands:
  list         List recent sessions
  debug        Show full session state
  trace        Show trace events for a session
  clean        Remove old sessions
  stats        Show template A/B test statistics
  hooks        Install or inspect the Claude Code hook wiring`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are reported with the roz prefix so
// hook warnings and command failures read the same in Claude Code logs.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "roz: error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
}

// openStore loads the config and opens the session store at the configured
// storage root. Unlike hooks, CLI commands propagate failures to the user.
func openStore() (*storage.FileStore, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewFileStore(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// loadSession fetches a session for a CLI command, turning both a missing and
// an unreadable session into an error the user sees.
func loadSession(store storage.Store, sessionID string) (*state.SessionState, error) {
	s, err := store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return s, nil
}
