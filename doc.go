// Package learnpath turns a free-text learning goal into a structured learning
// path by driving a tool-calling language model agent.
//
// The root package holds the vocabulary shared by every other package:
// conversation [Message] values, [Tool] definitions and the [ToolCall] /
// [ToolResult] pair exchanged with the model, the [ChatProvider] interface
// implemented by the model clients, and the categorized [Error] type used for
// configuration, authentication, upstream and user input failures.
//
// The moving parts live in subpackages:
//
//   - [github.com/spetersoncode/learnpath/credential]: OAuth credential lifecycle for YouTube
//   - [github.com/spetersoncode/learnpath/tool]: typed tool registry and tagged results
//   - [github.com/spetersoncode/learnpath/youtube]: video search and playlist tool adapters
//   - [github.com/spetersoncode/learnpath/mcp]: remote MCP integrations (Drive, Notion)
//   - [github.com/spetersoncode/learnpath/agent]: bounded tool-calling loop
//   - [github.com/spetersoncode/learnpath/pathgen]: learning path runner with progress reporting
//   - [github.com/spetersoncode/learnpath/progress]: status message to phase mapping
//   - [github.com/spetersoncode/learnpath/client]: retrying model client over Gemini, OpenAI and Anthropic
//   - [github.com/spetersoncode/learnpath/session]: per-session run guard and progress state
//   - [github.com/spetersoncode/learnpath/agui]: AG-UI event stream for the web UI
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{Provider: learnpath.ProviderGoogle, APIKey: key})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	yt := youtube.New(creds.TokenSource(ctx))
//	runner := pathgen.NewRunner(c, pathgen.Config{MaxSteps: 100}, youtube.Tools(yt)...)
//	result, err := runner.Run(ctx, pathgen.Request{Goal: "learn python basics in 3 days"},
//	    func(msg string) { fmt.Println(msg) })
package learnpath
