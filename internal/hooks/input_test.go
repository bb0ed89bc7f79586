package hooks

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestParseInput_Minimal verifies the two required fields are enough.
func TestParseInput_Minimal(t *testing.T) {
	in, err := ParseInput(strings.NewReader(`{"session_id":"abc","cwd":"/work"}`))
	if err != nil {
		t.Fatalf("ParseInput: %v", err)
	}
	if in.SessionID != "abc" {
		t.Errorf("SessionID = %q, want abc", in.SessionID)
	}
	if in.Cwd != "/work" {
		t.Errorf("Cwd = %q, want /work", in.Cwd)
	}
}

// TestParseInput_FullPayload verifies the optional hook fields decode.
func TestParseInput_FullPayload(t *testing.T) {
	payload := `{
		"session_id": "abc",
		"cwd": "/work",
		"prompt": "#roz review",
		"tool_name": "Bash",
		"tool_input": {"command": "gh pr merge 7"},
		"source": "startup",
		"subagent_type": "roz:roz",
		"subagent_prompt": "SESSION_ID=abc",
		"subagent_started_at": "2025-06-01T10:00:00Z"
	}`

	in, err := ParseInput(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseInput: %v", err)
	}
	if in.Prompt != "#roz review" {
		t.Errorf("Prompt = %q", in.Prompt)
	}
	if in.ToolName != "Bash" {
		t.Errorf("ToolName = %q", in.ToolName)
	}
	toolInput, ok := in.ToolInput.(map[string]any)
	if !ok || toolInput["command"] != "gh pr merge 7" {
		t.Errorf("ToolInput = %v, want command map", in.ToolInput)
	}
	if in.SubagentType != "roz:roz" {
		t.Errorf("SubagentType = %q", in.SubagentType)
	}
	want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if in.SubagentStartedAt == nil || !in.SubagentStartedAt.Equal(want) {
		t.Errorf("SubagentStartedAt = %v, want %v", in.SubagentStartedAt, want)
	}
}

// TestParseInput_MissingSessionID verifies the session id is required.
func TestParseInput_MissingSessionID(t *testing.T) {
	_, err := ParseInput(strings.NewReader(`{"cwd":"/work"}`))
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("err = %v, want ErrMissingField", err)
	}
	if err == nil || !strings.Contains(err.Error(), "session_id") {
		t.Errorf("err = %v, want to name session_id", err)
	}
}

// TestParseInput_MissingCwd verifies the working directory is required.
func TestParseInput_MissingCwd(t *testing.T) {
	_, err := ParseInput(strings.NewReader(`{"session_id":"abc"}`))
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("err = %v, want ErrMissingField", err)
	}
	if err == nil || !strings.Contains(err.Error(), "cwd") {
		t.Errorf("err = %v, want to name cwd", err)
	}
}

// TestParseInput_UnknownFieldsIgnored verifies hosts can add fields without
// breaking older binaries.
func TestParseInput_UnknownFieldsIgnored(t *testing.T) {
	in, err := ParseInput(strings.NewReader(`{"session_id":"abc","cwd":"/work","transcript_path":"/tmp/t.jsonl","hook_event_name":"Stop"}`))
	if err != nil {
		t.Fatalf("ParseInput: %v", err)
	}
	if in.SessionID != "abc" {
		t.Errorf("SessionID = %q, want abc", in.SessionID)
	}
}

// TestParseInput_MalformedJSON verifies garbage input is an error rather
// than a zero-value struct.
func TestParseInput_MalformedJSON(t *testing.T) {
	if _, err := ParseInput(strings.NewReader(`{not json`)); err == nil {
		t.Error("ParseInput accepted malformed JSON, want error")
	}
	if _, err := ParseInput(strings.NewReader("")); err == nil {
		t.Error("ParseInput accepted empty input, want error")
	}
}
