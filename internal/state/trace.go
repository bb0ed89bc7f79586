package state

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies trace events.
type EventType string

const (
	// EventSessionStart marks a new session.
	EventSessionStart EventType = "session_start"

	// EventPromptReceived marks a user prompt.
	EventPromptReceived EventType = "prompt_received"

	// EventGateBlocked marks a gated tool call that was denied.
	EventGateBlocked EventType = "gate_blocked"

	// EventGateAllowed marks a gated tool call that was allowed.
	EventGateAllowed EventType = "gate_allowed"

	// EventToolCompleted marks a completed tool call.
	EventToolCompleted EventType = "tool_completed"

	// EventStopHookCalled marks a stop hook invocation.
	EventStopHookCalled EventType = "stop_hook_called"

	// EventRozDecision marks a recorded review verdict.
	EventRozDecision EventType = "roz_decision"

	// EventTraceCompacted marks a compaction of the trace itself.
	EventTraceCompacted EventType = "trace_compacted"

	// EventSessionEnd marks the end of a session.
	EventSessionEnd EventType = "session_end"
)

// TraceEvent is one entry in the session's diagnostic trace.
type TraceEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	EventType EventType      `json:"event_type"`
	Payload   map[string]any `json:"payload"`
}

// NewTraceEvent stamps an event with a fresh id and the current time.
func NewTraceEvent(eventType EventType, payload map[string]any) TraceEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return TraceEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Payload:   payload,
	}
}

// AddTraceEvent appends an event, then compacts the trace if it exceeds
// maxEvents: the oldest few events stay for context, a trace_compacted
// marker records what was dropped, and the newest events fill the rest.
func (s *SessionState) AddTraceEvent(event TraceEvent, maxEvents int) {
	s.Trace = append(s.Trace, event)
	if len(s.Trace) <= maxEvents {
		return
	}

	keepStart := min(10, maxEvents/2)
	keepEnd := maxEvents - keepStart - 1
	if keepEnd < 0 {
		keepEnd = 0
	}

	total := len(s.Trace)
	dropped := total - maxEvents

	compacted := make([]TraceEvent, 0, maxEvents)
	compacted = append(compacted, s.Trace[:keepStart]...)
	compacted = append(compacted, NewTraceEvent(EventTraceCompacted, map[string]any{
		"dropped_events": dropped,
		"kept_start":     keepStart,
		"kept_end":       keepEnd,
	}))
	compacted = append(compacted, s.Trace[total-keepEnd:]...)
	s.Trace = compacted
}
