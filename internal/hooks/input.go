package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// HookInput is the record the host agent delivers on stdin for every hook
// invocation. Only session_id and cwd are always present; the remaining
// fields are populated per hook. Unknown fields are ignored.
type HookInput struct {
	// SessionID identifies the agent session.
	SessionID string `json:"session_id"`

	// Cwd is the working directory of the agent process.
	Cwd string `json:"cwd"`

	// Prompt is the user's message (user-prompt hook).
	Prompt string `json:"prompt,omitempty"`

	// ToolName is the tool about to run (pre-tool-use hook).
	ToolName string `json:"tool_name,omitempty"`

	// ToolInput is the tool's input payload (pre-tool-use hook).
	ToolInput any `json:"tool_input,omitempty"`

	// ToolResponse is the tool's output payload (post-tool-use hook).
	ToolResponse any `json:"tool_response,omitempty"`

	// Source says how the session began: startup, resume, clear, compact.
	Source string `json:"source,omitempty"`

	// SubagentType names the subagent that just finished (subagent-stop hook).
	SubagentType string `json:"subagent_type,omitempty"`

	// SubagentPrompt is the prompt the subagent was spawned with.
	SubagentPrompt string `json:"subagent_prompt,omitempty"`

	// SubagentStartedAt is when the subagent began execution.
	SubagentStartedAt *time.Time `json:"subagent_started_at,omitempty"`
}

// ParseInput decodes a hook input record from r and validates the
// always-required fields.
func ParseInput(r io.Reader) (*HookInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var in HookInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if in.SessionID == "" {
		return nil, fmt.Errorf("%w: session_id", ErrMissingField)
	}
	if in.Cwd == "" {
		return nil, fmt.Errorf("%w: cwd", ErrMissingField)
	}
	return &in, nil
}
