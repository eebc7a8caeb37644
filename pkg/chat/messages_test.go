package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageConstructors(t *testing.T) {
	t.Run("should trim whitespace from user messages", func(t *testing.T) {
		msg := NewUserMessage("1", "  hello  ")
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, SenderUser, msg.Sender)
		assert.Equal(t, KindText, msg.Kind)
		assert.False(t, msg.Streaming)
	})

	t.Run("should create open text deltas", func(t *testing.T) {
		msg := NewTextDelta("m1", "Hi")
		assert.True(t, msg.Streaming)
		assert.Equal(t, SenderAgent, msg.Sender)
		assert.Equal(t, KindText, msg.Kind)
		assert.False(t, msg.Timestamp.IsZero())
	})

	t.Run("should create open thought deltas", func(t *testing.T) {
		msg := NewThoughtDelta("t1", "hmm")
		assert.True(t, msg.Streaming)
		assert.Equal(t, KindThought, msg.Kind)
	})

	t.Run("should create discrete tool calls in calling status", func(t *testing.T) {
		msg := NewToolCallMessage("call_1", ToolData{ID: "call_1", Name: "search", Status: StatusCalling})
		assert.False(t, msg.Streaming)
		assert.Equal(t, KindToolCall, msg.Kind)
		assert.Equal(t, "Executing tool: search", msg.Content)
		assert.Equal(t, StatusCalling, msg.Tool.Status)
	})

	t.Run("should correlate tool results through tool data", func(t *testing.T) {
		msg := NewToolResultMessage("call_1_res", "output", ToolData{ID: "call_1", Name: "search", Status: StatusSuccess})
		assert.Equal(t, KindToolResult, msg.Kind)
		assert.Equal(t, "call_1", msg.Tool.ID)
		assert.Equal(t, "output", msg.Content)
	})
}

func TestFinishSentinel(t *testing.T) {
	t.Run("should recognize the sentinel", func(t *testing.T) {
		assert.True(t, Finish().IsFinish())
	})

	t.Run("should not match ordinary empty messages", func(t *testing.T) {
		msg := NewAgentMessage("greeting", "")
		assert.False(t, msg.IsFinish())
	})

	t.Run("should not match a streaming message with the reserved id", func(t *testing.T) {
		msg := NewTextDelta(FinishID, "")
		assert.False(t, msg.IsFinish())
	})

	t.Run("should not match a non-empty message with the reserved id", func(t *testing.T) {
		msg := NewAgentMessage(FinishID, "text")
		assert.False(t, msg.IsFinish())
	})
}

func TestIsActivity(t *testing.T) {
	t.Run("should classify thought and tool kinds as activity", func(t *testing.T) {
		assert.True(t, NewThoughtDelta("t", "x").IsActivity())
		assert.True(t, NewToolCallMessage("c", ToolData{Name: "search"}).IsActivity())
		assert.True(t, NewToolResultMessage("r", "out", ToolData{}).IsActivity())
	})

	t.Run("should keep text out of activity groups", func(t *testing.T) {
		assert.False(t, NewTextDelta("m", "x").IsActivity())
		assert.False(t, NewUserMessage("u", "x").IsActivity())
	})
}
