package tool

import (
	"context"

	ai "github.com/spetersoncode/learnpath"
)

// Handler executes a tool call and returns a tagged result.
// The context supports cancellation and timeout.
// The call contains the tool name, ID, and arguments as a JSON string.
// Handlers report failures through Fail rather than a Go error so the
// model always receives a payload it can react to.
type Handler func(ctx context.Context, call ai.ToolCall) Result

// TypedHandler is a function that executes a tool call with typed arguments.
// The args parameter is decoded from the tool call's JSON arguments with
// defaults applied and required fields checked.
type TypedHandler[T any] func(ctx context.Context, args T) Result
