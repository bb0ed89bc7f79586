// Package storage persists session state between hook invocations.
package storage

import (
	"time"

	"github.com/bivory/roz/internal/state"
)

// SessionSummary is the listing projection of a stored session.
type SessionSummary struct {
	// SessionID identifies the session.
	SessionID string `json:"session_id"`

	// FirstPrompt is the first user prompt recorded, if any.
	FirstPrompt string `json:"first_prompt,omitempty"`

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time `json:"created_at"`

	// EventCount is the number of trace events.
	EventCount int `json:"event_count"`
}

// Store is the interface for persisting session state.
type Store interface {
	// GetSession loads a session by id. A missing session returns
	// (nil, nil); a corrupt record returns an error.
	GetSession(sessionID string) (*state.SessionState, error)

	// PutSession writes a session, replacing any previous state.
	PutSession(s *state.SessionState) error

	// ListSessions returns summaries of stored sessions, newest first,
	// at most limit entries.
	ListSessions(limit int) ([]SessionSummary, error)

	// DeleteSession removes a session. Deleting a missing session is
	// not an error.
	DeleteSession(sessionID string) error
}

// summarize builds the listing projection for a session.
func summarize(s *state.SessionState) SessionSummary {
	summary := SessionSummary{
		SessionID:  s.SessionID,
		CreatedAt:  s.CreatedAt,
		EventCount: len(s.Trace),
	}
	if len(s.Review.UserPrompts) > 0 {
		summary.FirstPrompt = s.Review.UserPrompts[0]
	}
	return summary
}

// validSession reports whether a decoded record carries the fields every
// session written by this process has. Files that decode but miss them are
// treated as corrupt.
func validSession(s *state.SessionState) bool {
	return s.SessionID != "" && !s.CreatedAt.IsZero()
}
