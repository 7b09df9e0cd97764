// Package agent runs a bounded tool-calling conversation.
//
// An agent orchestrates a conversation loop where the model can request tool calls,
// which are executed through a [tool.Registry] and the results fed back to the model
// until the model produces a final response without tool calls.
//
// # Basic Usage
//
//	registry := tool.NewRegistry()
//	if err := registry.RegisterAll(youtube.Tools(yt)...); err != nil {
//	    return err
//	}
//	a := agent.New(provider, registry)
//
//	result, err := a.Run(ctx, messages, agent.WithMaxSteps(100))
//	fmt.Println(result.FinalContent())
//
// # Observing Events
//
// Run blocks; WithEventHandler receives each event synchronously as it occurs:
//
//	a.Run(ctx, messages, agent.WithEventHandler(func(e event.Event) {
//	    switch e.Type {
//	    case event.ToolCallStart:
//	        fmt.Printf("[Tool: %s]\n", e.ToolCall.Name)
//	    case event.RunEnd:
//	        fmt.Println("Done:", e.Message)
//	    }
//	}))
//
// # Termination Conditions
//
// The agent stops when any of these conditions are met:
//
//   - The model responds without tool calls (TerminationComplete)
//   - MaxSteps is reached (TerminationMaxSteps, ErrMaxStepsReached)
//   - Timeout is exceeded (TerminationTimeout, ErrAgentTimeout)
//   - Context is cancelled (TerminationCancelled)
//   - The provider returns an error (TerminationError)
//
// Tool failures never stop the loop: they are returned to the model as
// {"error": reason} payloads.
package agent
