package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bivory/roz/internal/state"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return fs
}

func TestNewFileStore_CreatesSessionsDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), ".roz")

	fs, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, err := os.Stat(fs.sessionsDir()); err != nil {
		t.Errorf("sessions directory not created: %v", err)
	}
	if fs.BasePath() != base {
		t.Errorf("BasePath() = %q, want %q", fs.BasePath(), base)
	}
}

func TestFileStore_PutGet(t *testing.T) {
	fs := newTestFileStore(t)

	s := state.NewSession("round-trip")
	s.Review.Enabled = true
	s.Review.UserPrompts = append(s.Review.UserPrompts, "#roz check this")

	if err := fs.PutSession(s); err != nil {
		t.Fatalf("PutSession() error = %v", err)
	}

	got, err := fs.GetSession("round-trip")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetSession() returned nil for stored session")
	}
	if !got.Review.Enabled {
		t.Error("Review.Enabled lost in round trip")
	}
	if len(got.Review.UserPrompts) != 1 || got.Review.UserPrompts[0] != "#roz check this" {
		t.Errorf("UserPrompts = %v", got.Review.UserPrompts)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	fs := newTestFileStore(t)

	got, err := fs.GetSession("never-stored")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetSession() = %+v, want nil", got)
	}
}

func TestFileStore_GetCorrupt(t *testing.T) {
	fs := newTestFileStore(t)

	path := filepath.Join(fs.sessionsDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := fs.GetSession("bad"); err == nil {
		t.Error("GetSession() should fail on malformed JSON")
	}
}

// TestFileStore_GetWrongSchema checks that a file which decodes as JSON but
// is not a session record is treated as corrupt rather than loaded as an
// empty session.
func TestFileStore_GetWrongSchema(t *testing.T) {
	fs := newTestFileStore(t)

	path := filepath.Join(fs.sessionsDir(), "empty.json")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := fs.GetSession("empty")
	if !errors.Is(err, ErrCorruptSession) {
		t.Errorf("GetSession() error = %v, want ErrCorruptSession", err)
	}
}

func TestFileStore_PutEmptyID(t *testing.T) {
	fs := newTestFileStore(t)

	err := fs.PutSession(&state.SessionState{})
	if !errors.Is(err, ErrSessionIDRequired) {
		t.Errorf("PutSession() error = %v, want ErrSessionIDRequired", err)
	}
}

func TestFileStore_PutLeavesNoTempFiles(t *testing.T) {
	fs := newTestFileStore(t)

	s := state.NewSession("tmp-check")
	for i := 0; i < 3; i++ {
		if err := fs.PutSession(s); err != nil {
			t.Fatalf("PutSession() error = %v", err)
		}
	}

	entries, err := os.ReadDir(fs.sessionsDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

// TestFileStore_List checks ordering, limits, and that files which are not
// valid session records are skipped.
func TestFileStore_List(t *testing.T) {
	fs := newTestFileStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"first", "second", "third"} {
		s := state.NewSession(id)
		s.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		s.Review.UserPrompts = []string{"prompt for " + id}
		if err := fs.PutSession(s); err != nil {
			t.Fatalf("PutSession(%s) error = %v", id, err)
		}
	}

	// Noise the listing must ignore.
	for name, content := range map[string]string{
		"notes.txt":    "not a session",
		"garbage.json": "{broken",
		"hollow.json":  "{}",
	} {
		if err := os.WriteFile(filepath.Join(fs.sessionsDir(), name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	summaries, err := fs.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	if summaries[0].SessionID != "third" || summaries[2].SessionID != "first" {
		t.Errorf("order = [%s %s %s], want newest first",
			summaries[0].SessionID, summaries[1].SessionID, summaries[2].SessionID)
	}
	if summaries[0].FirstPrompt != "prompt for third" {
		t.Errorf("FirstPrompt = %q", summaries[0].FirstPrompt)
	}

	limited, err := fs.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}

func TestFileStore_ListEmptyDir(t *testing.T) {
	fs := newTestFileStore(t)

	summaries, err := fs.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("len = %d, want 0", len(summaries))
	}
}

func TestFileStore_Delete(t *testing.T) {
	fs := newTestFileStore(t)

	s := state.NewSession("doomed")
	if err := fs.PutSession(s); err != nil {
		t.Fatal(err)
	}

	if err := fs.DeleteSession("doomed"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	got, err := fs.GetSession("doomed")
	if err != nil || got != nil {
		t.Errorf("session still present after delete: %v, %v", got, err)
	}

	// Deleting again is not an error.
	if err := fs.DeleteSession("doomed"); err != nil {
		t.Errorf("second DeleteSession() error = %v", err)
	}
}
