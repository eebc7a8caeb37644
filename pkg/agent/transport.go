// Package agent speaks the backend's streaming chat protocol: it opens a turn
// against an agent endpoint, decodes the event stream and maps it onto
// transcript messages.
package agent

import (
	"context"

	"github.com/agentchat/agentchat/pkg/chat"
)

// Transport opens one turn and yields the mapped messages in the exact order
// the underlying events were delivered. The channel is closed when the turn
// ends. A clean end is preceded by exactly one finish sentinel; a transport
// failure by exactly one system-sender error message with no sentinel after
// it.
type Transport interface {
	Stream(ctx context.Context, history []chat.Message, userText string, bootstrap map[string]any) <-chan chat.Message
}
