// Package event defines the events observed while an agent run executes.
// Tool call events are forwarded to the browser as AG-UI events and counted
// by the metrics package.
package event

import (
	"time"

	ai "github.com/spetersoncode/learnpath"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when execution begins.
	RunStart Type = "run_start"

	// RunEnd fires when execution completes, whatever the termination reason.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires when a step begins.
	StepStart Type = "step_start"

	// StepEnd fires when a step completes.
	StepEnd Type = "step_end"
)

// Message lifecycle events
const (
	// MessageEnd fires when an assistant message completes.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call begins (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallResult fires with the tool execution result.
	ToolCallResult Type = "tool_call_result"
)

// Event represents an observable occurrence during execution.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// MessageID identifies the assistant message for MessageEnd events.
	MessageID string

	// Response contains the model response for StepEnd, MessageEnd and RunEnd events.
	Response *ai.Response

	// ToolCall contains the tool call for tool-related events.
	ToolCall *ai.ToolCall

	// ToolResult contains the result for ToolCallResult events.
	ToolResult *ai.ToolResult

	// Duration is how long a tool call took, set on ToolCallResult events.
	Duration time.Duration

	// Step is the current iteration number (1-indexed).
	Step int

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context (e.g. the termination reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Handler receives events synchronously as they occur.
type Handler func(Event)
