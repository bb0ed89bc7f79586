// Package state defines the durable per-session state shared by every hook
// invocation: review status, gate triggers, block attempts, and the
// diagnostic trace.
package state

import (
	"time"
)

// SessionState is the unit of persistence. One record per agent session.
type SessionState struct {
	// SessionID is the identifier assigned by the host agent.
	SessionID string `json:"session_id"`

	// Review holds the review workflow state.
	Review ReviewState `json:"review"`

	// Trace records hook activity for debugging.
	Trace []TraceEvent `json:"trace"`

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the session was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates state for a session that has not been seen before.
func NewSession(sessionID string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		SessionID: sessionID,
		Review:    NewReviewState(),
		Trace:     []TraceEvent{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReviewState tracks the review workflow within a session.
type ReviewState struct {
	// Enabled reports whether the stop hook gates this session.
	Enabled bool `json:"enabled"`

	// Decision is the current review verdict.
	Decision Decision `json:"decision"`

	// DecisionHistory keeps prior verdicts for debugging.
	DecisionHistory []DecisionRecord `json:"decision_history"`

	// UserPrompts are the prompts that opted this session into review.
	UserPrompts []string `json:"user_prompts"`

	// GateTrigger describes the tool call that forced the review, if any.
	GateTrigger *GateTrigger `json:"gate_trigger,omitempty"`

	// GateApprovedAt is when a completed review last satisfied the gate.
	GateApprovedAt *time.Time `json:"gate_approved_at,omitempty"`

	// LastPromptAt is when the most recent user prompt arrived.
	LastPromptAt *time.Time `json:"last_prompt_at,omitempty"`

	// ReviewStartedAt is when the current review cycle began.
	ReviewStartedAt *time.Time `json:"review_started_at,omitempty"`

	// BlockCount is how many times the stop hook has blocked.
	BlockCount int `json:"block_count"`

	// CircuitBreakerTripped reports whether blocking has given up
	// for this session.
	CircuitBreakerTripped bool `json:"circuit_breaker_tripped"`

	// Attempts records each block together with the template used.
	Attempts []ReviewAttempt `json:"attempts,omitempty"`
}

// NewReviewState returns review state for a session with no activity yet.
func NewReviewState() ReviewState {
	return ReviewState{
		Decision:        Decision{Type: DecisionPending},
		DecisionHistory: []DecisionRecord{},
		UserPrompts:     []string{},
	}
}

// DecisionType discriminates the review verdict.
type DecisionType string

const (
	// DecisionPending means the review has not produced a verdict yet.
	DecisionPending DecisionType = "pending"

	// DecisionComplete means the reviewer approved the work.
	DecisionComplete DecisionType = "complete"

	// DecisionIssues means the reviewer found problems to fix.
	DecisionIssues DecisionType = "issues"
)

// Decision is the review verdict. Type selects the variant: Summary applies
// to complete and issues, SecondOpinions only to complete, MessageToAgent
// only to issues.
type Decision struct {
	Type           DecisionType `json:"type"`
	Summary        string       `json:"summary,omitempty"`
	SecondOpinions string       `json:"second_opinions,omitempty"`
	MessageToAgent string       `json:"message_to_agent,omitempty"`
}

// DecisionRecord is one entry in the decision history.
type DecisionRecord struct {
	Decision  Decision  `json:"decision"`
	Timestamp time.Time `json:"timestamp"`
}

// GateTrigger captures the tool call that forced a review.
type GateTrigger struct {
	// ToolName is the matched tool key, e.g. "Bash:terraform apply".
	ToolName string `json:"tool_name"`

	// ToolInput is the tool input, truncated when large.
	ToolInput TruncatedInput `json:"tool_input"`

	// TriggeredAt is when the gate fired.
	TriggeredAt time.Time `json:"triggered_at"`

	// PatternMatched is the configured pattern that matched.
	PatternMatched string `json:"pattern_matched"`
}

// ReviewAttempt records one stop-hook block and its eventual outcome.
type ReviewAttempt struct {
	// TemplateID is the block template used for this attempt.
	TemplateID string `json:"template_id"`

	// Timestamp is when the block happened.
	Timestamp time.Time `json:"timestamp"`

	// Outcome is what the attempt led to.
	Outcome AttemptOutcome `json:"outcome"`
}

// OutcomeType discriminates attempt outcomes.
type OutcomeType string

const (
	// OutcomePending means no result has been observed yet.
	OutcomePending OutcomeType = "pending"

	// OutcomeSuccess means the reviewer spawned and posted a verdict.
	OutcomeSuccess OutcomeType = "success"

	// OutcomeNotSpawned means the agent never spawned the reviewer.
	OutcomeNotSpawned OutcomeType = "not_spawned"

	// OutcomeNoDecision means the reviewer ran but posted no verdict.
	OutcomeNoDecision OutcomeType = "no_decision"

	// OutcomeBadSessionID means the reviewer reported a missing or
	// wrong session id.
	OutcomeBadSessionID OutcomeType = "bad_session_id"
)

// AttemptOutcome is the result of a review attempt. DecisionType and
// BlocksNeeded are only set for success outcomes.
type AttemptOutcome struct {
	Type         OutcomeType `json:"type"`
	DecisionType string      `json:"decision_type,omitempty"`
	BlocksNeeded int         `json:"blocks_needed,omitempty"`
}
