package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentchat/agentchat/pkg/chat"
	"github.com/agentchat/agentchat/pkg/sse"
)

// Protocol event types carried on the SSE `event:` line.
const (
	EventStepDelta    = "thread.run.step.delta"
	EventMessageDelta = "thread.message.delta"
)

type deltaPayload struct {
	Choices []struct {
		Delta struct {
			Content     json.RawMessage `json:"content"`
			StepDetails *stepDetails    `json:"step_details"`
		} `json:"delta"`
	} `json:"choices"`
}

type stepDetails struct {
	Type       string         `json:"type"`
	ToolCalls  []stepToolCall `json:"tool_calls"`
	Name       string         `json:"name"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id"`
}

type stepToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type thinkingContent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// MapRecord translates one protocol event into zero or more transcript
// messages. Unrecognized shapes map to nothing: the protocol is free to grow
// event types without breaking older clients.
func MapRecord(rec sse.Record) []chat.Message {
	switch rec.Event {
	case EventStepDelta:
		return mapStepDelta(rec)
	case EventMessageDelta:
		return mapMessageDelta(rec)
	}
	return nil
}

func mapStepDelta(rec sse.Record) []chat.Message {
	var payload deltaPayload
	if err := json.Unmarshal(rec.Data, &payload); err != nil || len(payload.Choices) == 0 {
		return nil
	}

	details := payload.Choices[0].Delta.StepDetails
	if details == nil {
		return nil
	}

	switch details.Type {
	case "tool_calls":
		var msgs []chat.Message
		for _, tool := range details.ToolCalls {
			if tool.Name == chat.PlannerTool {
				continue
			}

			id := tool.ID
			if id == "" {
				id = rec.ID
			}
			if id == "" {
				id = fmt.Sprintf("tool_%d", time.Now().UnixNano())
			}

			args := tool.Args
			if args == nil {
				args = map[string]any{}
			}

			msgs = append(msgs, chat.NewToolCallMessage(id, chat.ToolData{
				ID:     id,
				Name:   tool.Name,
				Args:   args,
				Status: chat.StatusCalling,
			}))
		}
		return msgs

	case "tool_response":
		if details.Name == chat.PlannerTool {
			return nil
		}

		callID := details.ToolCallID
		if callID == "" {
			callID = rec.ID
		}

		return []chat.Message{chat.NewToolResultMessage(callID+"_res", details.Content, chat.ToolData{
			ID:     details.ToolCallID,
			Name:   details.Name,
			Args:   map[string]any{},
			Status: chat.StatusSuccess,
			Result: details.Content,
		})}
	}
	return nil
}

func mapMessageDelta(rec sse.Record) []chat.Message {
	var payload deltaPayload
	if err := json.Unmarshal(rec.Data, &payload); err != nil || len(payload.Choices) == 0 {
		return nil
	}

	raw := payload.Choices[0].Delta.Content
	if len(raw) == 0 {
		return nil
	}

	// Plain string content is a text delta.
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		id := rec.ID
		if id == "" {
			id = "streaming_text"
		}
		return []chat.Message{chat.NewTextDelta(id, text)}
	}

	// Structured content tagged "thinking" is a reasoning delta.
	var thinking thinkingContent
	if err := json.Unmarshal(raw, &thinking); err == nil && thinking.Type == "thinking" {
		id := rec.ID
		if id == "" {
			id = "streaming_thought"
		}
		return []chat.Message{chat.NewThoughtDelta(id, thinking.Content)}
	}

	return nil
}
