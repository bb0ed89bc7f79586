package hooks

import (
	"encoding/json"
	"fmt"
	"io"
)

// HookOutput is the verdict written to stdout for the stop-family hooks
// (session-start, user-prompt, stop, subagent-stop). Approve serializes as
// an empty object; the host treats a missing decision as approval.
type HookOutput struct {
	// Decision is "block" to halt the agent, omitted to approve.
	Decision string `json:"decision,omitempty"`

	// Reason explains a block verdict to the agent.
	Reason string `json:"reason,omitempty"`

	// AdditionalContext is injected into the conversation on approve.
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Approve returns the empty approve verdict.
func Approve() *HookOutput {
	return &HookOutput{}
}

// ApproveWithContext returns an approve verdict carrying context for the host.
func ApproveWithContext(context string) *HookOutput {
	return &HookOutput{AdditionalContext: context}
}

// Block returns a block verdict with the given reason.
func Block(reason string) *HookOutput {
	return &HookOutput{Decision: "block", Reason: reason}
}

// IsBlock reports whether the output is a block verdict.
func (o *HookOutput) IsBlock() bool {
	return o.Decision == "block"
}

// PreToolUseOutput is the verdict schema for the pre-tool-use hook. The host
// expects the decision nested under hookSpecificOutput.
type PreToolUseOutput struct {
	HookSpecificOutput PreToolUseDecision `json:"hookSpecificOutput"`
}

// PreToolUseDecision carries the permission verdict for a tool invocation.
type PreToolUseDecision struct {
	// HookEventName is always "PreToolUse".
	HookEventName string `json:"hookEventName"`

	// PermissionDecision is "allow", "deny", or "ask".
	PermissionDecision string `json:"permissionDecision"`

	// Reason explains a deny or ask verdict.
	Reason string `json:"reason,omitempty"`

	// UpdatedInput replaces the tool's input when set.
	UpdatedInput any `json:"updatedInput,omitempty"`
}

// Allow returns the allow verdict for a tool invocation.
func Allow() *PreToolUseOutput {
	return &PreToolUseOutput{
		HookSpecificOutput: PreToolUseDecision{
			HookEventName:      "PreToolUse",
			PermissionDecision: "allow",
		},
	}
}

// Deny returns a deny verdict with the given reason.
func Deny(reason string) *PreToolUseOutput {
	return &PreToolUseOutput{
		HookSpecificOutput: PreToolUseDecision{
			HookEventName:      "PreToolUse",
			PermissionDecision: "deny",
			Reason:             reason,
		},
	}
}

// Ask returns an ask verdict, deferring the decision to the user.
func Ask(reason string) *PreToolUseOutput {
	return &PreToolUseOutput{
		HookSpecificOutput: PreToolUseDecision{
			HookEventName:      "PreToolUse",
			PermissionDecision: "ask",
			Reason:             reason,
		},
	}
}

// WriteJSON writes v to w as a single compact JSON line.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
