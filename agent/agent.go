package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/event"
	"github.com/spetersoncode/learnpath/tool"
)

// Agent orchestrates autonomous tool-calling conversations.
type Agent struct {
	provider ai.ChatProvider
	registry *tool.Registry
}

// New creates a new Agent with the given chat provider and tool registry.
func New(p ai.ChatProvider, registry *tool.Registry) *Agent {
	return &Agent{
		provider: p,
		registry: registry,
	}
}

// Run executes the agent loop and returns the final result.
// This is a blocking call that runs until the model answers without tool
// calls, the step limit is hit, the context ends or the provider fails.
// The returned Result is never nil and reflects the work done so far.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	options := ApplyOptions(opts...)

	// Apply overall timeout if specified
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	emit := func(e event.Event) {
		if options.OnEvent != nil {
			if e.Timestamp.IsZero() {
				e.Timestamp = time.Now()
			}
			options.OnEvent(e)
		}
	}

	result := &Result{
		Messages: append([]ai.Message(nil), messages...),
	}

	emit(event.Event{Type: event.RunStart})

	chatOpts := append([]ai.Option{ai.WithTools(a.registry.Tools())}, options.ChatOptions...)

	for step := 1; ; step++ {
		if reason, err := checkTermination(ctx, step, options); reason != "" {
			return a.finish(result, reason, err, emit)
		}

		emit(event.Event{Type: event.StepStart, Step: step})

		response, err := a.provider.Chat(ctx, result.Messages, chatOpts...)
		if err != nil {
			if ctx.Err() != nil {
				reason, ctxErr := checkTermination(ctx, step, options)
				return a.finish(result, reason, ctxErr, emit)
			}
			return a.finish(result, TerminationError, err, emit)
		}

		result.Steps = step
		result.Response = response
		result.TotalUsage = result.TotalUsage.Add(response.Usage)
		emit(event.Event{Type: event.StepEnd, Step: step, Response: response})

		assistant := ai.Message{
			ID:        ai.GenerateMessageID(),
			Role:      ai.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		}
		result.Messages = append(result.Messages, assistant)

		// No tool calls = natural completion
		if len(response.ToolCalls) == 0 {
			emit(event.Event{Type: event.MessageEnd, Step: step, MessageID: assistant.ID, Response: response})
			return a.finish(result, TerminationComplete, nil, emit)
		}

		results := a.executeToolCalls(ctx, response.ToolCalls, options, step, emit)
		for _, r := range results {
			result.ToolCalls++
			if r.IsError {
				result.FailedToolCalls++
			}
		}
		result.Messages = append(result.Messages, ai.NewToolResultMessage(results...))
	}
}

func (a *Agent) finish(result *Result, reason TerminationReason, err error, emit func(event.Event)) (*Result, error) {
	result.Termination = reason
	if err != nil && reason == TerminationError {
		emit(event.Event{Type: event.RunError, Step: result.Steps, Error: err})
		return result, err
	}
	emit(event.Event{
		Type:     event.RunEnd,
		Step:     result.Steps,
		Response: result.Response,
		Message:  string(reason),
		Error:    err,
	})
	return result, err
}

func (a *Agent) executeToolCalls(ctx context.Context, calls []ai.ToolCall, options *Options, step int, emit func(event.Event)) []ai.ToolResult {
	results := make([]ai.ToolResult, len(calls))

	if !options.ParallelToolCalls || len(calls) == 1 {
		for i, tc := range calls {
			results[i] = a.executeToolCall(ctx, tc, options, step, emit)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, tc := range calls {
		wg.Add(1)
		go func(idx int, call ai.ToolCall) {
			defer wg.Done()
			results[idx] = a.executeToolCall(ctx, call, options, step, emit)
		}(i, tc)
	}
	wg.Wait()
	return results
}

func (a *Agent) executeToolCall(ctx context.Context, tc ai.ToolCall, options *Options, step int, emit func(event.Event)) ai.ToolResult {
	emit(event.Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})

	// Apply handler timeout
	execCtx := ctx
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := a.registry.Execute(execCtx, tc)
	if err != nil {
		// Unknown tool: report it to the model so it can pick another one
		result = ai.ToolResult{
			ToolCallID: tc.ID,
			Name:       tc.Name,
			Content:    tool.Fail(err.Error()).String(),
			IsError:    true,
		}
	}

	emit(event.Event{
		Type:       event.ToolCallResult,
		Step:       step,
		ToolCall:   &tc,
		ToolResult: &result,
		Duration:   time.Since(start),
	})
	return result
}

func checkTermination(ctx context.Context, step int, options *Options) (TerminationReason, error) {
	// Check context cancellation/timeout
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return TerminationTimeout, fmt.Errorf("%w: %w", ErrAgentTimeout, err)
		}
		return TerminationCancelled, err
	}

	// Check max steps (step is 1-indexed, check before executing)
	if options.MaxSteps > 0 && step > options.MaxSteps {
		return TerminationMaxSteps, ErrMaxStepsReached
	}

	return "", nil
}
