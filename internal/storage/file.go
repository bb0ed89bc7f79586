package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bivory/roz/internal/state"
)

// SessionsDir is the subdirectory of the base path holding session files.
const SessionsDir = "sessions"

// FileStore implements Store on the local filesystem. Each session lives in
// <base>/sessions/<id>.json and is replaced atomically on write.
type FileStore struct {
	// BaseDir is the root directory (e.g. ~/.roz).
	BaseDir string

	mu sync.Mutex
}

// NewFileStore creates a file-based store rooted at baseDir, creating the
// sessions directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	fs := &FileStore{BaseDir: baseDir}
	if err := os.MkdirAll(fs.sessionsDir(), 0700); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}
	return fs, nil
}

// BasePath returns the configured base directory.
func (fs *FileStore) BasePath() string {
	return fs.BaseDir
}

func (fs *FileStore) sessionsDir() string {
	return filepath.Join(fs.BaseDir, SessionsDir)
}

func (fs *FileStore) sessionPath(sessionID string) string {
	return filepath.Join(fs.sessionsDir(), sessionID+".json")
}

// GetSession loads a session by id. A missing file returns (nil, nil).
func (fs *FileStore) GetSession(sessionID string) (*state.SessionState, error) {
	data, err := os.ReadFile(fs.sessionPath(sessionID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", sessionID, err)
	}

	var s state.SessionState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", sessionID, err)
	}
	if !validSession(&s) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrCorruptSession)
	}
	return &s, nil
}

// PutSession writes a session via a temp file in the same directory so the
// stored record is always either the old or the new state.
func (fs *FileStore) PutSession(s *state.SessionState) error {
	if s.SessionID == "" {
		return ErrSessionIDRequired
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.SessionID, err)
	}

	dir := fs.sessionsDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create sessions directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, s.SessionID+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write session %s: %w", s.SessionID, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync session %s: %w", s.SessionID, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, fs.sessionPath(s.SessionID)); err != nil {
		return fmt.Errorf("rename to final: %w", err)
	}

	success = true
	return nil
}

// ListSessions scans the sessions directory and returns summaries, newest
// first. Unreadable or corrupt files are skipped.
func (fs *FileStore) ListSessions(limit int) ([]SessionSummary, error) {
	entries, err := os.ReadDir(fs.sessionsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fs.sessionsDir(), entry.Name()))
		if err != nil {
			continue
		}
		var s state.SessionState
		if err := json.Unmarshal(data, &s); err != nil {
			continue // skip malformed files
		}
		if !validSession(&s) {
			continue
		}
		summaries = append(summaries, summarize(&s))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit >= 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// DeleteSession removes a session file. Missing files are ignored.
func (fs *FileStore) DeleteSession(sessionID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	err := os.Remove(fs.sessionPath(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
