package hooks

import (
	"fmt"
	"strings"
	"time"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// DecideRequest is a review verdict to record for a session.
type DecideRequest struct {
	// SessionID names the reviewed session.
	SessionID string
	// Kind is COMPLETE or ISSUES, case-insensitive.
	Kind string
	// Summary describes the review findings.
	Summary string
	// Message tells the agent what to fix (ISSUES only).
	Message string
	// Opinions records consulted external reviewers (COMPLETE only).
	Opinions string
}

// ApplyDecision records a review verdict, preserving the prior verdict in
// the history and resolving the newest pending block attempt. Returns the
// normalized kind.
func ApplyDecision(store storage.Store, cfg *config.Config, req DecideRequest) (string, error) {
	s, err := store.GetSession(req.SessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, req.SessionID)
	}

	now := time.Now().UTC()
	kindUpper := strings.ToUpper(req.Kind)

	var decision state.Decision
	switch kindUpper {
	case "COMPLETE":
		decision = state.Decision{
			Type:           state.DecisionComplete,
			Summary:        req.Summary,
			SecondOpinions: req.Opinions,
		}
	case "ISSUES":
		decision = state.Decision{
			Type:           state.DecisionIssues,
			Summary:        req.Summary,
			MessageToAgent: req.Message,
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidDecision, kindUpper)
	}

	// Keep the prior verdict so repeated reviews stay auditable.
	s.Review.DecisionHistory = append(s.Review.DecisionHistory, state.DecisionRecord{
		Decision:  s.Review.Decision,
		Timestamp: now,
	})

	payload := map[string]any{
		"decision": kindUpper,
		"summary":  req.Summary,
	}
	if req.Opinions != "" {
		payload["second_opinions"] = req.Opinions
	}
	s.AddTraceEvent(state.NewTraceEvent(state.EventRozDecision, payload), cfg.Trace.MaxEvents)

	if kindUpper == "COMPLETE" {
		s.Review.GateApprovedAt = &now
	}

	// Resolve the newest pending attempt so template stats see the result.
	for i := len(s.Review.Attempts) - 1; i >= 0; i-- {
		if s.Review.Attempts[i].Outcome.Type == state.OutcomePending {
			s.Review.Attempts[i].Outcome = state.AttemptOutcome{
				Type:         state.OutcomeSuccess,
				DecisionType: strings.ToLower(kindUpper),
				BlocksNeeded: s.Review.BlockCount,
			}
			break
		}
	}

	s.Review.Decision = decision
	s.UpdatedAt = now

	if err := store.PutSession(s); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return kindUpper, nil
}
