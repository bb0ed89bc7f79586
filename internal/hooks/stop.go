package hooks

import (
	"fmt"
	"os"
	"time"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
	"github.com/bivory/roz/internal/template"
)

// HandleStop decides whether the agent may finish. A session with review
// enabled and no verdict blocks until the reviewer posts one; the circuit
// breaker caps how many times that can happen.
func HandleStop(in *HookInput, cfg *config.Config, store storage.Store) *HookOutput {
	s, err := store.GetSession(in.SessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: storage error: %v\n", err)
		return Approve()
	}
	if s == nil {
		// Never saw this session, nothing to review.
		return Approve()
	}

	now := time.Now().UTC()

	s.AddTraceEvent(state.NewTraceEvent(state.EventStopHookCalled, nil), cfg.Trace.MaxEvents)

	if !s.Review.Enabled {
		s.UpdatedAt = now
		saveSession(store, s)
		return Approve()
	}

	// Breaker check before incrementing, so a tripped session stays quiet.
	if shouldTrip(s, &cfg.CircuitBreaker) {
		tripBreaker(s)
		s.UpdatedAt = now
		saveSession(store, s)
		return Approve()
	}

	var out *HookOutput

	switch s.Review.Decision.Type {
	case state.DecisionPending:
		s.Review.BlockCount++

		// Re-check after incrementing to catch the limit exactly.
		if shouldTrip(s, &cfg.CircuitBreaker) {
			tripBreaker(s)
			s.UpdatedAt = now
			saveSession(store, s)
			return Approve()
		}

		templateID := template.Select(&cfg.Templates)
		recordReviewAttempt(s, templateID)

		tpl := template.Load(cfg.Storage.Path, templateID)
		out = Block(template.Render(tpl, in.SessionID))

	case state.DecisionComplete:
		out = Approve()

	case state.DecisionIssues:
		msg := s.Review.Decision.MessageToAgent
		if msg == "" {
			msg = "Issues were found. Please address them and try again."
		}

		s.Review.BlockCount++

		if shouldTrip(s, &cfg.CircuitBreaker) {
			tripBreaker(s)
			s.UpdatedAt = now
			saveSession(store, s)
			return Approve()
		}

		templateID := template.Select(&cfg.Templates)
		recordReviewAttempt(s, templateID)

		out = Block(fmt.Sprintf(
			"Review found issues that need to be addressed:\n\n%s\n\nAfter fixing, spawn roz:roz again to re-review.",
			msg))

	default:
		out = Approve()
	}

	s.UpdatedAt = now
	saveSession(store, s)

	return out
}

// recordReviewAttempt logs a block so template performance can be compared
// later. The outcome starts pending and is resolved by the decide operation.
func recordReviewAttempt(s *state.SessionState, templateID string) {
	s.Review.Attempts = append(s.Review.Attempts, state.ReviewAttempt{
		TemplateID: templateID,
		Timestamp:  time.Now().UTC(),
		Outcome:    state.AttemptOutcome{Type: state.OutcomePending},
	})
}

// saveSession persists state, downgrading failures to a warning. Hook
// verdicts must not depend on the write succeeding.
func saveSession(store storage.Store, s *state.SessionState) {
	if err := store.PutSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: failed to save state: %v\n", err)
	}
}
