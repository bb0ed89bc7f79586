package hooks

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// sessionIDPattern extracts the session id a reviewer was given, matching
// SESSION_ID=abc123 or SESSION_ID: abc123.
var sessionIDPattern = regexp.MustCompile(`SESSION_ID[=:]\s*([a-zA-Z0-9_-]+)`)

// decisionTimeLayout renders timestamps in block messages.
const decisionTimeLayout = "2006-01-02T15:04:05Z"

// subagentEndBuffer tolerates clock skew between the reviewer finishing and
// this hook observing its decision.
const subagentEndBuffer = 5 * time.Second

// HandleSubagentStop verifies that the reviewer subagent posted its verdict
// during its own execution window. Without this check the main agent could
// satisfy the stop hook by running the decide operation itself.
func HandleSubagentStop(in *HookInput, cfg *config.Config, store storage.Store) *HookOutput {
	if in.SubagentType != "roz:roz" {
		return Approve()
	}

	sessionID := extractSessionID(in.SubagentPrompt)
	if sessionID == "" {
		return Block("roz:roz completed but SESSION_ID not found in prompt. The prompt must include SESSION_ID=<id>.")
	}

	// The hook runs immediately after the subagent exits. When the host
	// does not report a start time, assume a generous window.
	ended := time.Now().UTC()
	started := ended.Add(-time.Hour)
	if in.SubagentStartedAt != nil {
		started = in.SubagentStartedAt.UTC()
	}

	s, err := store.GetSession(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: storage error: %v\n", err)
		return Approve()
	}
	if s == nil {
		fmt.Fprintf(os.Stderr, "roz: warning: session %s not found\n", sessionID)
		return Approve()
	}

	if s.Review.Decision.Type == state.DecisionPending {
		return Block(fmt.Sprintf(
			"roz:roz (%s) completed but did not record a decision.\n\n"+
				"Run: roz decide %s COMPLETE \"summary\"\n"+
				" or: roz decide %s ISSUES \"summary\" --message \"what to fix\"",
			in.SubagentType, sessionID, sessionID))
	}

	decisionTime := s.UpdatedAt

	if decisionTime.Before(started) {
		return Block(fmt.Sprintf(
			"Decision timestamp (%s) is before roz started (%s). Decision must be posted by roz:roz during its execution.",
			decisionTime.UTC().Format(decisionTimeLayout), started.Format(decisionTimeLayout)))
	}
	if decisionTime.After(ended.Add(subagentEndBuffer)) {
		return Block(fmt.Sprintf(
			"Decision timestamp (%s) is after roz ended (%s). Decision must be posted by roz:roz during its execution.",
			decisionTime.UTC().Format(decisionTimeLayout), ended.Format(decisionTimeLayout)))
	}

	return Approve()
}

// extractSessionID pulls the session id out of a reviewer prompt. Returns ""
// when the prompt carries none.
func extractSessionID(prompt string) string {
	m := sessionIDPattern.FindStringSubmatch(prompt)
	if m == nil {
		return ""
	}
	return m[1]
}
