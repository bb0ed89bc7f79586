package state

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s := NewSession("test-123")

	if s.SessionID != "test-123" {
		t.Errorf("SessionID = %q, want %q", s.SessionID, "test-123")
	}
	if s.Review.Enabled {
		t.Error("new session should not have review enabled")
	}
	if s.Review.Decision.Type != DecisionPending {
		t.Errorf("Decision.Type = %q, want %q", s.Review.Decision.Type, DecisionPending)
	}
	if len(s.Trace) != 0 {
		t.Errorf("Trace should be empty, got %d events", len(s.Trace))
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestDecision_JSON(t *testing.T) {
	tests := []struct {
		name     string
		decision Decision
		want     string
	}{
		{
			name:     "pending",
			decision: Decision{Type: DecisionPending},
			want:     `{"type":"pending"}`,
		},
		{
			name:     "complete omits empty second opinions",
			decision: Decision{Type: DecisionComplete, Summary: "All good"},
			want:     `{"type":"complete","summary":"All good"}`,
		},
		{
			name: "complete with second opinions",
			decision: Decision{
				Type:           DecisionComplete,
				Summary:        "All good",
				SecondOpinions: "Codex agreed",
			},
			want: `{"type":"complete","summary":"All good","second_opinions":"Codex agreed"}`,
		},
		{
			name: "issues with message",
			decision: Decision{
				Type:           DecisionIssues,
				Summary:        "Found bugs",
				MessageToAgent: "Fix the tests",
			},
			want: `{"type":"issues","summary":"Found bugs","message_to_agent":"Fix the tests"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.decision)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var parsed Decision
			if err := json.Unmarshal(data, &parsed); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if parsed != tt.decision {
				t.Errorf("round trip = %+v, want %+v", parsed, tt.decision)
			}
		})
	}
}

func TestAttemptOutcome_JSON(t *testing.T) {
	pending, _ := json.Marshal(AttemptOutcome{Type: OutcomePending})
	if string(pending) != `{"type":"pending"}` {
		t.Errorf("pending = %s, want {\"type\":\"pending\"}", pending)
	}

	notSpawned, _ := json.Marshal(AttemptOutcome{Type: OutcomeNotSpawned})
	if string(notSpawned) != `{"type":"not_spawned"}` {
		t.Errorf("not_spawned = %s, want {\"type\":\"not_spawned\"}", notSpawned)
	}

	success, _ := json.Marshal(AttemptOutcome{
		Type:         OutcomeSuccess,
		DecisionType: "complete",
		BlocksNeeded: 2,
	})
	for _, want := range []string{"success", "decision_type", "blocks_needed"} {
		if !strings.Contains(string(success), want) {
			t.Errorf("success outcome %s missing %q", success, want)
		}
	}
}

// TestSessionState_JSONOmissions checks that unset optional fields are
// omitted from the serialized form while required collections stay present.
func TestSessionState_JSONOmissions(t *testing.T) {
	data, err := json.Marshal(NewSession("omit-test"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	for _, absent := range []string{"gate_trigger", "gate_approved_at", "last_prompt_at", "review_started_at", "attempts"} {
		if strings.Contains(out, absent) {
			t.Errorf("serialized state should omit %q, got %s", absent, out)
		}
	}
	for _, present := range []string{`"decision_history":[]`, `"user_prompts":[]`, `"trace":[]`, `"block_count":0`, `"circuit_breaker_tripped":false`} {
		if !strings.Contains(out, present) {
			t.Errorf("serialized state missing %s in %s", present, out)
		}
	}
}

func TestGateTrigger_RoundTrip(t *testing.T) {
	trigger := GateTrigger{
		ToolName:       "mcp__tissue__close_issue",
		ToolInput:      NewTruncatedInput(map[string]any{"issue_id": "123"}),
		TriggeredAt:    time.Now().UTC(),
		PatternMatched: "mcp__tissue__close*",
	}

	data, err := json.Marshal(trigger)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "pattern_matched") {
		t.Errorf("serialized trigger missing pattern_matched: %s", data)
	}

	var parsed GateTrigger
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if parsed.ToolName != trigger.ToolName {
		t.Errorf("ToolName = %q, want %q", parsed.ToolName, trigger.ToolName)
	}
	if parsed.PatternMatched != trigger.PatternMatched {
		t.Errorf("PatternMatched = %q, want %q", parsed.PatternMatched, trigger.PatternMatched)
	}
}

func TestNewTruncatedInput_SmallValue(t *testing.T) {
	in := NewTruncatedInput(map[string]any{"key": "small value"})

	if in.Truncated {
		t.Error("small value should not be truncated")
	}
	if in.OriginalHash != "" || in.OriginalSize != 0 {
		t.Errorf("small value should not carry hash or size, got %q/%d", in.OriginalHash, in.OriginalSize)
	}
}

func TestNewTruncatedInput_LargeString(t *testing.T) {
	large := strings.Repeat("x", 15000)
	in := NewTruncatedInput(large)

	if !in.Truncated {
		t.Fatal("15KB string should be truncated")
	}
	if in.OriginalHash == "" {
		t.Error("truncated input should carry a hash")
	}
	// Serialized size includes the surrounding quotes.
	if in.OriginalSize != 15002 {
		t.Errorf("OriginalSize = %d, want 15002", in.OriginalSize)
	}

	s, ok := in.Value.(string)
	if !ok {
		t.Fatalf("Value = %T, want string", in.Value)
	}
	if !strings.Contains(s, "truncated, 15000 bytes total") {
		t.Errorf("truncated string missing marker: %q", s)
	}
	if len(s) > 500 {
		t.Errorf("truncated string should be short, got %d bytes", len(s))
	}
}

func TestNewTruncatedInput_LargeArray(t *testing.T) {
	items := make([]any, 0, 1000)
	for i := 0; i < 1000; i++ {
		items = append(items, strings.Repeat("y", 50))
	}
	in := NewTruncatedInput(items)

	if !in.Truncated {
		t.Fatal("50KB array should be truncated")
	}
	arr, ok := in.Value.([]any)
	if !ok {
		t.Fatalf("Value = %T, want []any", in.Value)
	}
	// First ten elements plus the "... more items" marker.
	if len(arr) != 11 {
		t.Fatalf("len = %d, want 11", len(arr))
	}
	last, ok := arr[10].(string)
	if !ok || !strings.Contains(last, "990 more items") {
		t.Errorf("marker element = %v, want '... [990 more items]'", arr[10])
	}
}

func TestNewTruncatedInput_SmallArrayUnchanged(t *testing.T) {
	items := []any{1.0, 2.0, 3.0}
	in := NewTruncatedInput(items)

	if in.Truncated {
		t.Error("small array should not be truncated")
	}
	if arr := in.Value.([]any); len(arr) != 3 {
		t.Errorf("len = %d, want 3", len(arr))
	}
}

func TestEventType_JSON(t *testing.T) {
	data, err := json.Marshal(EventPromptReceived)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"prompt_received"` {
		t.Errorf("Marshal() = %s, want \"prompt_received\"", data)
	}
}
