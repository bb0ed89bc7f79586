package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// HandlePreToolUse gates tool invocations. A tool key matching a configured
// gate pattern is denied until the session has a valid review approval.
func HandlePreToolUse(in *HookInput, cfg *config.Config, store storage.Store) *PreToolUseOutput {
	if !cfg.Review.Gates.Enabled() {
		return Allow()
	}

	toolKey := formatToolKey(in.ToolName, in.ToolInput)

	pattern, ok := findMatchingPattern(toolKey, cfg.Review.Gates.Tools)
	if !ok {
		return Allow()
	}

	s, err := store.GetSession(in.SessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: storage error: %v\n", err)
		return Allow()
	}
	if s == nil {
		s = state.NewSession(in.SessionID)
	}

	if s.Review.CircuitBreakerTripped {
		traceGateAllowed(s, toolKey, "circuit_breaker", cfg.Trace.MaxEvents)
		saveSession(store, s)
		return Allow()
	}

	if isGateApproved(s, &cfg.Review.Gates) {
		traceGateAllowed(s, toolKey, "approved", cfg.Trace.MaxEvents)
		saveSession(store, s)
		return Allow()
	}

	// Gate fires: arm the review and keep the full trigger context so the
	// reviewer can see what was attempted.
	now := time.Now().UTC()
	s.Review.Enabled = true
	s.Review.ReviewStartedAt = &now
	s.Review.GateTrigger = &state.GateTrigger{
		ToolName:       toolKey,
		ToolInput:      state.NewTruncatedInput(in.ToolInput),
		TriggeredAt:    now,
		PatternMatched: pattern,
	}

	s.AddTraceEvent(state.NewTraceEvent(state.EventGateBlocked, map[string]any{
		"tool":    toolKey,
		"pattern": pattern,
	}), cfg.Trace.MaxEvents)

	s.UpdatedAt = now

	if err := store.PutSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: failed to save state: %v\n", err)
		return Allow()
	}

	return Deny(fmt.Sprintf(
		"Review required before this action.\n\n"+
			"Spawn **roz:roz** to review this session:\n\n"+
			"```\n"+
			"SESSION_ID=%s\n\n"+
			"## Summary\n"+
			"[What you did and why]\n\n"+
			"## Files Changed\n"+
			"[List of modified files]\n"+
			"```\n\n"+
			"Triggered by: `%s`",
		in.SessionID, toolKey))
}

// formatToolKey builds the string gate patterns match against. Bash commands
// are normalized and prefixed so patterns can target specific commands.
func formatToolKey(toolName string, toolInput any) string {
	if toolName == "" {
		return "unknown"
	}
	if toolName == "Bash" {
		if m, ok := toolInput.(map[string]any); ok {
			if cmd, ok := m["command"].(string); ok {
				return "Bash:" + normalizeBashCommand(cmd)
			}
		}
	}
	return toolName
}

// findMatchingPattern returns the first pattern matching the tool key.
// Order matters: more specific patterns should be listed first.
func findMatchingPattern(toolKey string, patterns []string) (string, bool) {
	for _, p := range patterns {
		if globMatch(p, toolKey) {
			return p, true
		}
	}
	return "", false
}

// globMatch matches a tool key against a glob pattern, falling back to a
// literal prefix match when the pattern does not parse.
func globMatch(pattern, toolKey string) bool {
	ok, err := filepath.Match(pattern, toolKey)
	if err != nil {
		return strings.HasPrefix(toolKey, strings.TrimRight(pattern, "*"))
	}
	return ok
}

// traceGateAllowed records a gate pass for debugging visibility.
func traceGateAllowed(s *state.SessionState, tool, reason string, maxEvents int) {
	s.AddTraceEvent(state.NewTraceEvent(state.EventGateAllowed, map[string]any{
		"tool":   tool,
		"reason": reason,
	}), maxEvents)
}
