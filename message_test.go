package learnpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageConstructors(t *testing.T) {
	t.Run("NewUserMessage", func(t *testing.T) {
		msg := NewUserMessage("hello")
		assert.Equal(t, RoleUser, msg.Role)
		assert.Equal(t, "hello", msg.Content)
	})

	t.Run("NewSystemMessage", func(t *testing.T) {
		msg := NewSystemMessage("be brief")
		assert.Equal(t, RoleSystem, msg.Role)
	})

	t.Run("NewToolResultMessage", func(t *testing.T) {
		msg := NewToolResultMessage(
			ToolResult{ToolCallID: "call_1", Name: "search", Content: `{"videos":[]}`},
			ToolResult{ToolCallID: "call_2", Name: "add_items", Content: `{"error":"boom"}`, IsError: true},
		)
		assert.Equal(t, RoleTool, msg.Role)
		assert.Len(t, msg.ToolResults, 2)
		assert.True(t, msg.ToolResults[1].IsError)
	})
}

func TestGenerateMessageID(t *testing.T) {
	a := GenerateMessageID()
	b := GenerateMessageID()
	assert.True(t, strings.HasPrefix(a, "msg-"))
	assert.NotEqual(t, a, b)
}

func TestUsageAdd(t *testing.T) {
	total := Usage{InputTokens: 10, OutputTokens: 5}.Add(Usage{InputTokens: 3, OutputTokens: 2})
	assert.Equal(t, Usage{InputTokens: 13, OutputTokens: 7}, total)
}
