package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	hooksSettingsPath string
	hooksDryRun       bool
	hooksForce        bool
)

// rozEventNames are the Claude Code hook events roz wires, in install order.
var rozEventNames = []string{"SessionStart", "UserPromptSubmit", "Stop", "SubagentStop", "PreToolUse"}

// HookEntry is a single hook command in Claude Code settings.
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookGroup is a hook group with an optional tool matcher.
type HookGroup struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []HookEntry `json:"hooks"`
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "[User] Install or inspect the Claude Code hook wiring",
	Long: `Manage the Claude Code hook registrations that deliver lifecycle events
to roz.

Subcommands:
  install   Wire the five roz hooks into ~/.claude/settings.json
  show      Display which roz hooks are installed
  remove    Strip roz-managed hooks, leaving other tools' hooks intact`,
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install roz hooks to Claude Code settings",
	Long: `Install the roz hook registrations into Claude Code settings.

This command:
  1. Reads the existing settings.json (if any), preserving unrelated keys
  2. Replaces any previously installed roz hooks
  3. Backs up the original settings
  4. Writes the updated configuration

Events wired: SessionStart, UserPromptSubmit, Stop, SubagentStop, and
PreToolUse (all tools; gating is decided by roz config).`,
	Args: cobra.NoArgs,
	RunE: runHooksInstall,
}

var hooksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current roz hook coverage",
	Long:  `Display which roz hook events are installed in the Claude Code settings.`,
	Args:  cobra.NoArgs,
	RunE:  runHooksShow,
}

var hooksRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove roz hooks from Claude Code settings",
	Long: `Remove the roz-managed hook registrations from the Claude Code settings.
Hooks installed by other tools are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runHooksRemove,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksShowCmd)
	hooksCmd.AddCommand(hooksRemoveCmd)

	hooksCmd.PersistentFlags().StringVar(&hooksSettingsPath, "settings", "", "Claude settings path (default ~/.claude/settings.json)")
	hooksInstallCmd.Flags().BoolVar(&hooksDryRun, "dry-run", false, "Show what would be installed without making changes")
	hooksInstallCmd.Flags().BoolVar(&hooksForce, "force", false, "Reinstall even when roz hooks are already present")
	hooksRemoveCmd.Flags().BoolVar(&hooksDryRun, "dry-run", false, "Show what would be removed without making changes")
}

// settingsPath resolves the Claude settings location, honoring --settings.
func settingsPath() (string, error) {
	if hooksSettingsPath != "" {
		return hooksSettingsPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// rozHookGroups builds the five hook groups roz installs. PreToolUse uses a
// wildcard matcher; which tools actually gate is decided by roz config.
func rozHookGroups() map[string][]HookGroup {
	group := func(matcher, hook string) []HookGroup {
		return []HookGroup{{
			Matcher: matcher,
			Hooks:   []HookEntry{{Type: "command", Command: "roz hook " + hook}},
		}}
	}
	return map[string][]HookGroup{
		"SessionStart":     group("", "session-start"),
		"UserPromptSubmit": group("", "user-prompt"),
		"Stop":             group("", "stop"),
		"SubagentStop":     group("", "subagent-stop"),
		"PreToolUse":       group("*", "pre-tool-use"),
	}
}

// loadSettings reads settings.json as a raw map so unrelated keys survive a
// rewrite. A missing file yields an empty map.
func loadSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := map[string]any{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return settings, nil
}

// backupSettings copies the current settings aside before a rewrite.
func backupSettings(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings for backup: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	fmt.Printf("Backed up existing settings to %s\n", backupPath)
	return nil
}

// writeSettings writes settings.json as pretty JSON, creating the parent
// directory if needed.
func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// settingsHooksMap extracts the hooks section of raw settings.
func settingsHooksMap(settings map[string]any) map[string]any {
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return hooks
}

// groupIsRozManaged reports whether a raw hook group invokes roz.
func groupIsRozManaged(group map[string]any) bool {
	hooks, ok := group["hooks"].([]any)
	if !ok {
		return false
	}
	for _, h := range hooks {
		entry, ok := h.(map[string]any)
		if !ok {
			continue
		}
		if cmd, ok := entry["command"].(string); ok && isRozCommand(cmd) {
			return true
		}
	}
	return false
}

// isRozCommand reports whether a hook command invokes the roz binary.
func isRozCommand(cmd string) bool {
	return cmd == "roz" || strings.HasPrefix(cmd, "roz ")
}

// stripRozGroups removes roz-managed groups from one event's raw group list.
func stripRozGroups(groups []any) []any {
	kept := make([]any, 0, len(groups))
	for _, g := range groups {
		if gm, ok := g.(map[string]any); ok && groupIsRozManaged(gm) {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// hasRozHooks reports whether any event carries a roz-managed group.
func hasRozHooks(hooksMap map[string]any) bool {
	for _, raw := range hooksMap {
		groups, ok := raw.([]any)
		if !ok {
			continue
		}
		for _, g := range groups {
			if gm, ok := g.(map[string]any); ok && groupIsRozManaged(gm) {
				return true
			}
		}
	}
	return false
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	hooksMap := settingsHooksMap(settings)

	if !hooksForce && hasRozHooks(hooksMap) {
		fmt.Println("roz hooks already installed. Use --force to reinstall.")
		return nil
	}

	for event, groups := range rozHookGroups() {
		existing, _ := hooksMap[event].([]any)
		kept := stripRozGroups(existing)
		for _, g := range groups {
			kept = append(kept, hookGroupToMap(g))
		}
		hooksMap[event] = kept
	}
	settings["hooks"] = hooksMap

	if hooksDryRun {
		fmt.Println("[dry-run] Would write to", path)
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if err := backupSettings(path); err != nil {
		return err
	}
	if err := writeSettings(path, settings); err != nil {
		return err
	}

	fmt.Printf("Installed roz hooks to %s\n", path)
	fmt.Println()
	for _, event := range rozEventNames {
		fmt.Printf("  %s\n", event)
	}
	fmt.Println()
	fmt.Println("Run 'roz hooks show' to verify the installation.")
	return nil
}

// hookGroupToMap converts a typed group to the raw form used in settings, so
// the rewrite matches what json.Unmarshal produced for existing groups.
func hookGroupToMap(g HookGroup) map[string]any {
	hooks := make([]any, 0, len(g.Hooks))
	for _, h := range g.Hooks {
		entry := map[string]any{"type": h.Type, "command": h.Command}
		if h.Timeout > 0 {
			entry["timeout"] = h.Timeout
		}
		hooks = append(hooks, entry)
	}
	group := map[string]any{"hooks": hooks}
	if g.Matcher != "" {
		group["matcher"] = g.Matcher
	}
	return group
}

func runHooksShow(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	hooksMap := settingsHooksMap(settings)

	fmt.Println("roz hook coverage:")
	fmt.Println()
	installed := 0
	for _, event := range rozEventNames {
		groups, _ := hooksMap[event].([]any)
		found := false
		for _, g := range groups {
			if gm, ok := g.(map[string]any); ok && groupIsRozManaged(gm) {
				found = true
				break
			}
		}
		if found {
			fmt.Printf("  ✓ %-20s installed\n", event)
			installed++
		} else {
			fmt.Printf("  - %-20s not installed\n", event)
		}
	}

	fmt.Println()
	fmt.Printf("%d/%d events installed\n", installed, len(rozEventNames))
	if installed < len(rozEventNames) {
		fmt.Println()
		fmt.Println("Run 'roz hooks install' to set up hooks.")
	}
	return nil
}

func runHooksRemove(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	hooksMap := settingsHooksMap(settings)
	if !hasRozHooks(hooksMap) {
		fmt.Println("No roz hooks installed.")
		return nil
	}

	for event, raw := range hooksMap {
		groups, ok := raw.([]any)
		if !ok {
			continue
		}
		kept := stripRozGroups(groups)
		if len(kept) == 0 {
			delete(hooksMap, event)
		} else {
			hooksMap[event] = kept
		}
	}
	settings["hooks"] = hooksMap

	if hooksDryRun {
		fmt.Println("[dry-run] Would write to", path)
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if err := backupSettings(path); err != nil {
		return err
	}
	if err := writeSettings(path, settings); err != nil {
		return err
	}

	fmt.Printf("Removed roz hooks from %s\n", path)
	return nil
}
