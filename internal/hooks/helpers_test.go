package hooks

import (
	"testing"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// makeInput is a helper to create minimal hook input for a session.
func makeInput(sessionID string) *HookInput {
	return &HookInput{
		SessionID: sessionID,
		Cwd:       "/tmp",
	}
}

// gateConfig returns config with review gates on the tools the tests poke at.
func gateConfig() *config.Config {
	cfg := config.Default()
	cfg.Review.Gates.Tools = []string{
		"mcp__tissue__close*",
		"Bash:gh issue close*",
		"Bash:gh pr merge*",
	}
	return cfg
}

// mustGetSession loads a session that the test expects to exist.
func mustGetSession(t *testing.T, store storage.Store, sessionID string) *state.SessionState {
	t.Helper()
	s, err := store.GetSession(sessionID)
	if err != nil {
		t.Fatalf("GetSession(%q) error = %v", sessionID, err)
	}
	if s == nil {
		t.Fatalf("GetSession(%q) = nil, want session", sessionID)
	}
	return s
}

// putSession stores a session, failing the test on error.
func putSession(t *testing.T, store storage.Store, s *state.SessionState) {
	t.Helper()
	if err := store.PutSession(s); err != nil {
		t.Fatalf("PutSession(%q) error = %v", s.SessionID, err)
	}
}
