package hooks

import (
	"time"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
)

// isGateApproved reports whether a completed review still satisfies the
// gate under the configured approval scope.
func isGateApproved(s *state.SessionState, gates *config.GatesConfig) bool {
	if s.Review.Decision.Type != state.DecisionComplete {
		return false
	}

	approvedAt := s.Review.GateApprovedAt
	if approvedAt == nil {
		return false
	}

	if gates.ApprovalTTLSeconds != nil {
		expiry := approvedAt.Add(time.Duration(*gates.ApprovalTTLSeconds) * time.Second)
		if time.Now().After(expiry) {
			return false
		}
	}

	switch gates.ApprovalScope {
	case config.ScopeSession:
		// Any non-expired approval covers the whole session.
		return true

	case config.ScopePrompt:
		// The approval must postdate the last user prompt. Prompts that
		// arrive while a review is already underway do not count; they
		// would otherwise invalidate the approval the review is about
		// to produce.
		effectivePromptAt := s.Review.LastPromptAt
		if s.Review.LastPromptAt != nil && s.Review.ReviewStartedAt != nil &&
			s.Review.LastPromptAt.After(*s.Review.ReviewStartedAt) {
			effectivePromptAt = s.Review.ReviewStartedAt
		}
		if effectivePromptAt == nil {
			return true
		}
		return approvedAt.After(*effectivePromptAt)

	case config.ScopeTool:
		// Every invocation needs a fresh review.
		return false

	default:
		return false
	}
}
