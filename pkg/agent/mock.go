package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentchat/agentchat/pkg/chat"
)

// MockTransport replays a canned agent turn: two tool call/result pairs, a
// streamed reasoning message and a streamed text reply. It lets the widget
// run without a backend and is selected through configuration, never a build
// flag.
type MockTransport struct {
	chunkDelay time.Duration
}

func NewMockTransport() *MockTransport {
	return &MockTransport{chunkDelay: 30 * time.Millisecond}
}

// SetChunkDelay adjusts pacing between emitted messages. Zero makes the
// replay synchronous, which tests rely on.
func (m *MockTransport) SetChunkDelay(delay time.Duration) {
	m.chunkDelay = delay
}

const mockThought = "The user has opened the resource they were sent. I need to understand " +
	"their current query or requirement related to it. I'll start by acknowledging " +
	"their interest and asking how I can assist them further."

const mockReply = "Hi there! Welcome. \n\nI see you're looking at the **2025 buyer's guide**. \n\n" +
	"This resource provides great insights into putting agents to work. \n\n" +
	"How can I help you regarding this? Are you looking for specific implementation " +
	"details or general benefits?"

// Stream implements Transport.
func (m *MockTransport) Stream(ctx context.Context, history []chat.Message, userText string, bootstrap map[string]any) <-chan chat.Message {
	out := make(chan chat.Message, 64)
	go m.stream(ctx, out)
	return out
}

func (m *MockTransport) stream(ctx context.Context, out chan<- chat.Message) {
	defer close(out)

	now := time.Now().UnixNano()

	callID1 := fmt.Sprintf("call_%d_1", now)
	if !m.emit(ctx, out, chat.NewToolCallMessage(callID1, chat.ToolData{
		ID:     callID1,
		Name:   "fetch_previous_context",
		Args:   map[string]any{"ci_id": "a0wgR000002KQtlABC"},
		Status: chat.StatusCalling,
	})) {
		return
	}

	if !m.emit(ctx, out, chat.NewToolResultMessage(fmt.Sprintf("res_%d_1", now),
		"## Client Interest Data: \n{'ID': 'a0wgR000002KQtlABC', 'ACCOUNT_NAME': 'ABC Company'}",
		chat.ToolData{
			ID:     callID1,
			Name:   "fetch_previous_context",
			Args:   map[string]any{},
			Status: chat.StatusSuccess,
			Result: "Success",
		})) {
		return
	}

	thoughtID := fmt.Sprintf("think_%d", now)
	for _, word := range strings.SplitAfter(mockThought, " ") {
		if !m.emit(ctx, out, chat.NewThoughtDelta(thoughtID, word)) {
			return
		}
	}

	callID2 := fmt.Sprintf("call_%d_2", now)
	if !m.emit(ctx, out, chat.NewToolCallMessage(callID2, chat.ToolData{
		ID:     callID2,
		Name:   "search_content",
		Args:   map[string]any{"query": "2025 buyer's guide"},
		Status: chat.StatusCalling,
	})) {
		return
	}

	if !m.emit(ctx, out, chat.NewToolResultMessage(fmt.Sprintf("res_%d_2", now),
		"### Search Results\n\n**The complete 2025 buyer's guide**\nCovers the latest trends, benefits, and adoption strategies.",
		chat.ToolData{
			ID:     callID2,
			Name:   "search_content",
			Args:   map[string]any{},
			Status: chat.StatusSuccess,
			Result: "Found 2 documents",
		})) {
		return
	}

	textID := fmt.Sprintf("msg_%d", now)
	for _, word := range strings.SplitAfter(mockReply, " ") {
		if !m.emit(ctx, out, chat.NewTextDelta(textID, word)) {
			return
		}
	}

	m.emit(ctx, out, chat.Finish())
}

func (m *MockTransport) emit(ctx context.Context, out chan<- chat.Message, msg chat.Message) bool {
	if m.chunkDelay > 0 {
		select {
		case <-time.After(m.chunkDelay):
		case <-ctx.Done():
			return false
		}
	}

	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

var _ Transport = (*MockTransport)(nil)
