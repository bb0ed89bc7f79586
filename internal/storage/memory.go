package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bivory/roz/internal/state"
)

// MemoryStore implements Store with an in-memory map. It backs tests and
// keeps no state across processes.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*state.SessionState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*state.SessionState)}
}

// GetSession returns a copy of the stored session, or (nil, nil) when absent.
func (ms *MemoryStore) GetSession(sessionID string) (*state.SessionState, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return cloneSession(s)
}

// PutSession stores a copy of the session.
func (ms *MemoryStore) PutSession(s *state.SessionState) error {
	if s.SessionID == "" {
		return ErrSessionIDRequired
	}

	copied, err := cloneSession(s)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.SessionID] = copied
	return nil
}

// ListSessions returns summaries of stored sessions, newest first.
func (ms *MemoryStore) ListSessions(limit int) ([]SessionSummary, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	summaries := make([]SessionSummary, 0, len(ms.sessions))
	for _, s := range ms.sessions {
		summaries = append(summaries, summarize(s))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit >= 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// DeleteSession removes a session. Missing sessions are ignored.
func (ms *MemoryStore) DeleteSession(sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, sessionID)
	return nil
}

// cloneSession deep-copies a session so callers never alias stored state.
func cloneSession(s *state.SessionState) (*state.SessionState, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone session %s: %w", s.SessionID, err)
	}
	var copied state.SessionState
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("clone session %s: %w", s.SessionID, err)
	}
	return &copied, nil
}
