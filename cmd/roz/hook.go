package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/hooks"
	"github.com/bivory/roz/internal/storage"
)

var hookCmd = &cobra.Command{
	Use:   "hook <name>",
	Short: "[Internal] Run a hook (JSON stdin/stdout). Called by Claude Code hooks.",
	Long: `Run a lifecycle hook. Reads the hook payload as JSON from stdin and
writes the verdict as JSON to stdout.

Hook names: session-start, user-prompt, stop, subagent-stop, pre-tool-use.

Hooks never fail the host: any internal error degrades to an allowing
verdict with a warning on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHook(args[0])
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// runHook reads a hook payload from stdin, dispatches it, and writes the
// verdict to stdout. Returns an error only when stdout itself fails.
func runHook(name string) error {
	in, err := hooks.ParseInput(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: failed to parse input: %v\n", err)
		return writeFailOpen(name)
	}

	cfg := loadConfigOrDefault()

	store, err := storage.NewFileStore(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: storage init failed: %v\n", err)
		return writeFailOpen(name)
	}

	// Pre-tool-use speaks the permission schema, not the decision schema.
	if name == "pre-tool-use" {
		return hooks.WriteJSON(os.Stdout, hooks.HandlePreToolUse(in, cfg, store))
	}
	return hooks.WriteJSON(os.Stdout, hooks.Dispatch(name, in, cfg, store))
}

// writeFailOpen emits the allowing verdict for the hook's output schema.
func writeFailOpen(name string) error {
	if name == "pre-tool-use" {
		return hooks.WriteJSON(os.Stdout, hooks.Allow())
	}
	return hooks.WriteJSON(os.Stdout, hooks.Approve())
}

// loadConfigOrDefault loads the user config, degrading to defaults so a bad
// config file never breaks a hook.
func loadConfigOrDefault() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: config load failed: %v\n", err)
		return config.Default()
	}
	return cfg
}
