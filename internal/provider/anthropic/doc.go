// Package anthropic provides an Anthropic Claude API client implementing
// the learnpath ChatProvider interface.
//
// This package wraps the official Anthropic Go SDK. Only non-streaming chat
// completions with tool calling are used; system messages become the
// request's system blocks and tool results are sent back as user messages
// holding tool_result blocks.
package anthropic
