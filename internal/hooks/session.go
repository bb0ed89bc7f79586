package hooks

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

// HandleSessionStart initializes session state and reports which second
// opinion reviewers are installed. Resuming an existing session leaves its
// state untouched.
func HandleSessionStart(in *HookInput, cfg *config.Config, store storage.Store) *HookOutput {
	s, err := store.GetSession(in.SessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: storage error: %v\n", err)
		return Approve()
	}
	if s == nil {
		s = state.NewSession(in.SessionID)
		s.AddTraceEvent(state.NewTraceEvent(state.EventSessionStart, map[string]any{
			"source": in.Source,
			"cwd":    in.Cwd,
		}), cfg.Trace.MaxEvents)
	}

	if err := store.PutSession(s); err != nil {
		fmt.Fprintf(os.Stderr, "roz: warning: failed to save state: %v\n", err)
	}

	if context := secondOpinionContext(&cfg.ExternalModels); context != "" {
		return ApproveWithContext(context)
	}
	return Approve()
}

// secondOpinionContext probes for external reviewer commands and describes
// the available ones. Returns "" when none are installed; the host falls
// back to its built-in reviewer.
func secondOpinionContext(models *config.ExternalModelsConfig) string {
	codex := commandExists(models.Codex)
	gemini := commandExists(models.Gemini)

	if !codex && !gemini {
		return ""
	}

	context := "roz second opinion sources: "
	if codex {
		context += "codex "
	}
	if gemini {
		context += "gemini"
	}
	return context
}

// commandExists reports whether cmd resolves on PATH. An empty name is
// never probed.
func commandExists(cmd string) bool {
	if cmd == "" {
		return false
	}
	return exec.Command("which", cmd).Run() == nil
}
