package agent

import "github.com/agentchat/agentchat/pkg/chat"

// wireMessage is one element of the outbound `messages` array. Content is a
// pointer so a tool-call row can carry an explicit null.
type wireMessage struct {
	Role       string         `json:"role"`
	Content    *string        `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// wireHistory maps prior transcript messages onto the backend's wire roles.
// Thought messages and the widget's own system errors stay local and are
// never replayed to the backend.
func wireHistory(history []chat.Message) []wireMessage {
	messages := make([]wireMessage, 0, len(history))

	for _, msg := range history {
		switch {
		case msg.IsUser():
			content := msg.Content
			messages = append(messages, wireMessage{Role: "user", Content: &content})

		case msg.IsAgent() && msg.Kind == chat.KindText:
			if msg.Content == "" {
				continue
			}
			content := msg.Content
			messages = append(messages, wireMessage{Role: "assistant", Content: &content})

		case msg.IsAgent() && msg.Kind == chat.KindToolCall && msg.Tool != nil:
			messages = append(messages, wireMessage{
				Role:    "assistant",
				Content: nil,
				ToolCalls: []wireToolCall{{
					ID:   msg.Tool.ID,
					Type: "function",
					Function: wireFunction{
						Name:      msg.Tool.Name,
						Arguments: msg.Tool.Args,
					},
				}},
			})

		case msg.Kind == chat.KindToolResult && msg.Tool != nil:
			content := msg.Content
			messages = append(messages, wireMessage{
				Role:       "tool",
				Content:    &content,
				ToolCallID: msg.Tool.ID,
			})
		}
	}

	return messages
}

// appendUserTurn adds the new turn as the trailing wire message.
func appendUserTurn(messages []wireMessage, userText string) []wireMessage {
	content := userText
	return append(messages, wireMessage{Role: "user", Content: &content})
}
