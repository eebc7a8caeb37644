package chat

import (
	"strings"
	"time"
)

// Message is a single transcript entry. Ids are not globally unique: every
// delta belonging to the same logical message carries the same id, and the
// reducer decides merge-vs-append from id, kind, sender and streaming state.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Tool      *ToolData `json:"tool_data,omitempty"`
	Streaming bool      `json:"is_streaming,omitempty"`
}

// Kind discriminates the message variants the reducer understands.
type Kind string

const (
	KindText       Kind = "text"
	KindThought    Kind = "thought"
	KindToolCall   Kind = "tool_call"
	KindToolResult Kind = "tool_result"
)

const (
	SenderUser   = "user"
	SenderAgent  = "agent"
	SenderSystem = "system"
)

// Tool invocation status values.
const (
	StatusCalling = "calling"
	StatusSuccess = "success"
	StatusError   = "error"
)

// FinishID is the reserved id of the end-of-turn sentinel. The sentinel
// closes whatever message is still open and is never stored itself.
const FinishID = "final_finish"

// PlannerTool is the agent's internal planning tool. Its call and response
// events never surface in the transcript.
const PlannerTool = "think"

// ToolData links a tool call to its later result via ID.
type ToolData struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	Status string         `json:"status"`
	Result string         `json:"result,omitempty"`
}

func NewUserMessage(id, content string) Message {
	return Message{
		ID:        id,
		Sender:    SenderUser,
		Kind:      KindText,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

// NewTextDelta creates one streamed fragment of an agent text message.
// Accumulation across fragments is the reducer's job.
func NewTextDelta(id, content string) Message {
	return Message{
		ID:        id,
		Sender:    SenderAgent,
		Kind:      KindText,
		Content:   content,
		Timestamp: time.Now(),
		Streaming: true,
	}
}

// NewThoughtDelta creates one streamed fragment of an agent reasoning message.
func NewThoughtDelta(id, content string) Message {
	return Message{
		ID:        id,
		Sender:    SenderAgent,
		Kind:      KindThought,
		Content:   content,
		Timestamp: time.Now(),
		Streaming: true,
	}
}

// NewToolCallMessage creates a discrete tool invocation entry in calling
// status. Tool calls are never streamed.
func NewToolCallMessage(id string, tool ToolData) Message {
	return Message{
		ID:        id,
		Sender:    SenderAgent,
		Kind:      KindToolCall,
		Content:   "Executing tool: " + tool.Name,
		Timestamp: time.Now(),
		Tool:      &tool,
	}
}

// NewToolResultMessage creates the result entry for an earlier tool call,
// correlated through tool.ID.
func NewToolResultMessage(id, content string, tool ToolData) Message {
	return Message{
		ID:        id,
		Sender:    SenderAgent,
		Kind:      KindToolResult,
		Content:   content,
		Timestamp: time.Now(),
		Tool:      &tool,
	}
}

// NewSystemErrorMessage creates the system-sender entry that surfaces a
// transport failure to the user.
func NewSystemErrorMessage(id, content string) Message {
	return Message{
		ID:        id,
		Sender:    SenderSystem,
		Kind:      KindText,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAgentMessage creates a closed agent text message, e.g. the fallback
// greeting when initialization fails.
func NewAgentMessage(id, content string) Message {
	return Message{
		ID:        id,
		Sender:    SenderAgent,
		Kind:      KindText,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Finish returns the end-of-turn sentinel.
func Finish() Message {
	return Message{
		ID:        FinishID,
		Sender:    SenderAgent,
		Kind:      KindText,
		Content:   "",
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

func (m Message) IsAgent() bool {
	return m.Sender == SenderAgent
}

func (m Message) IsSystem() bool {
	return m.Sender == SenderSystem
}

// IsFinish reports whether m is the end-of-turn sentinel.
func (m Message) IsFinish() bool {
	return m.ID == FinishID && m.Kind == KindText && m.Content == "" && !m.Streaming
}

// IsActivity reports whether m belongs in a collapsed activity group rather
// than being rendered as a standalone bubble.
func (m Message) IsActivity() bool {
	switch m.Kind {
	case KindThought, KindToolCall, KindToolResult:
		return true
	case KindText:
		return false
	}
	return false
}

// closed returns a copy of m with streaming cleared. All other fields,
// including the creation timestamp, are preserved.
func (m Message) closed() Message {
	m.Streaming = false
	return m
}
