package hooks

import "errors"

// Sentinel errors for the hooks package.
var (
	// ErrSessionNotFound is returned when a decide targets an unknown session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidDecision is returned when a decide kind is not COMPLETE or ISSUES.
	ErrInvalidDecision = errors.New("invalid decision")
	// ErrMissingField is returned when hook input lacks a required field.
	ErrMissingField = errors.New("missing required field")
)
