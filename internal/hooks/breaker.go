package hooks

import (
	"fmt"
	"os"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
)

// shouldTrip reports whether the circuit breaker has tripped or should trip
// now. The breaker prevents an unattended session from blocking forever.
func shouldTrip(s *state.SessionState, cb *config.CircuitBreakerConfig) bool {
	if s.Review.CircuitBreakerTripped {
		return true
	}
	return s.Review.BlockCount >= cb.MaxBlocks
}

// tripBreaker marks the breaker tripped and disables review. The breaker
// stays tripped until a new session starts.
func tripBreaker(s *state.SessionState) {
	s.Review.CircuitBreakerTripped = true
	s.Review.Enabled = false

	fmt.Fprintf(os.Stderr, "roz: warning: circuit breaker tripped after %d blocks for session %s\n",
		s.Review.BlockCount, s.SessionID)
}
