package agent

import (
	ai "github.com/spetersoncode/learnpath"
)

// TerminationReason indicates why the agent stopped execution.
type TerminationReason string

const (
	// TerminationComplete indicates normal completion (no more tool calls).
	TerminationComplete TerminationReason = "complete"

	// TerminationMaxSteps indicates the step limit was reached.
	TerminationMaxSteps TerminationReason = "max_steps"

	// TerminationTimeout indicates the context deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationError indicates an unrecoverable error occurred.
	TerminationError TerminationReason = "error"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"
)

// Result represents the final outcome of an agent execution.
type Result struct {
	// Response is the final response from the model.
	Response *ai.Response

	// Messages is the complete conversation history, including the
	// caller's input messages.
	Messages []ai.Message

	// Steps is the number of model calls made.
	Steps int

	// ToolCalls counts executed tool calls; FailedToolCalls counts those
	// that returned an error payload.
	ToolCalls       int
	FailedToolCalls int

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// TotalUsage aggregates token usage across all steps.
	TotalUsage ai.Usage
}

// FinalContent returns the text of the final model response, or "".
func (r *Result) FinalContent() string {
	if r.Response == nil {
		return ""
	}
	return r.Response.Content
}
