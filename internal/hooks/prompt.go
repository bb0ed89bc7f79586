package hooks

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// HandleUserPrompt records prompt timing and enables review when the prompt
// opts in with the #roz marker. Always approves.
func HandleUserPrompt(in *HookInput, cfg *config.Config, store storage.Store) *HookOutput {
	s, err := store.GetSession(in.SessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: storage error: %v\n", err)
		return Approve()
	}
	if s == nil {
		s = state.NewSession(in.SessionID)
	}

	now := time.Now().UTC()
	s.Review.LastPromptAt = &now

	if strings.HasPrefix(strings.TrimSpace(in.Prompt), "#roz") {
		s.Review.Enabled = true
		s.Review.UserPrompts = append(s.Review.UserPrompts, in.Prompt)
		// A fresh opt-in starts a fresh review.
		s.Review.Decision = state.Decision{Type: state.DecisionPending}

		s.AddTraceEvent(state.NewTraceEvent(state.EventPromptReceived, map[string]any{
			"prompt": in.Prompt,
		}), cfg.Trace.MaxEvents)
	}

	s.UpdatedAt = now

	if err := store.PutSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: failed to save state: %v\n", err)
	}

	return Approve()
}
