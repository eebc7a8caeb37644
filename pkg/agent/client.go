package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/agentchat/agentchat/pkg/chat"
	"github.com/agentchat/agentchat/pkg/logger"
	"github.com/agentchat/agentchat/pkg/sse"
)

// Client is the live Transport: it POSTs a turn to the agent backend and
// decodes the SSE reply.
type Client struct {
	endpoint    string
	model       string
	apiKey      string
	threadID    string
	idleTimeout time.Duration
	httpClient  *http.Client
}

type chatRequest struct {
	Model     string         `json:"model"`
	Context   map[string]any `json:"context"`
	Messages  []wireMessage  `json:"messages"`
	Stream    bool           `json:"stream"`
	ExtraBody extraBody      `json:"extra_body"`
}

type extraBody struct {
	ThreadID string `json:"thread_id"`
}

func NewClient(endpoint, model, apiKey string) *Client {
	return NewClientWithIdleTimeout(endpoint, model, apiKey, 0)
}

// NewClientWithIdleTimeout creates a client whose streams are force-closed
// when no event arrives for idleTimeout. Zero disables the watchdog.
func NewClientWithIdleTimeout(endpoint, model, apiKey string, idleTimeout time.Duration) *Client {
	return &Client{
		endpoint:    endpoint,
		model:       model,
		apiKey:      apiKey,
		threadID:    uuid.New().String(),
		idleTimeout: idleTimeout,
		httpClient:  &http.Client{},
	}
}

// SetThreadID overrides the generated thread correlation id.
func (c *Client) SetThreadID(threadID string) {
	c.threadID = threadID
}

// Stream implements Transport.
func (c *Client) Stream(ctx context.Context, history []chat.Message, userText string, bootstrap map[string]any) <-chan chat.Message {
	out := make(chan chat.Message, 64)
	go c.stream(ctx, out, history, userText, bootstrap)
	return out
}

func (c *Client) stream(ctx context.Context, out chan<- chat.Message, history []chat.Message, userText string, bootstrap map[string]any) {
	defer close(out)

	if bootstrap == nil {
		bootstrap = map[string]any{}
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Context:   bootstrap,
		Messages:  appendUserTurn(wireHistory(history), userText),
		Stream:    true,
		ExtraBody: extraBody{ThreadID: c.threadID},
	})
	if err != nil {
		c.fail(ctx, out, fmt.Errorf("marshal request: %w", err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.fail(ctx, out, fmt.Errorf("create request: %w", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.fail(ctx, out, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
		c.fail(ctx, out, fmt.Errorf("API Error %d", resp.StatusCode))
		return
	}

	// Idle watchdog: closing the body unblocks the decoder read, which then
	// surfaces as a turn failure rather than hanging forever.
	var timedOut atomic.Bool
	var watchdog *time.Timer
	if c.idleTimeout > 0 {
		watchdog = time.AfterFunc(c.idleTimeout, func() {
			timedOut.Store(true)
			resp.Body.Close()
		})
		defer watchdog.Stop()
	}

	decoder := sse.NewDecoder(resp.Body)
	for {
		rec, err := decoder.Next()
		if err == io.EOF {
			c.emit(ctx, out, chat.Finish())
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				// The consumer abandoned the turn; its output is discarded
				// anyway, so stay silent.
				return
			}
			if timedOut.Load() {
				err = fmt.Errorf("no response from agent for %s", c.idleTimeout)
			}
			c.fail(ctx, out, err)
			return
		}

		if watchdog != nil {
			watchdog.Reset(c.idleTimeout)
		}

		for _, msg := range MapRecord(rec) {
			if !c.emit(ctx, out, msg) {
				return
			}
		}
	}
}

func (c *Client) emit(ctx context.Context, out chan<- chat.Message, msg chat.Message) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// fail surfaces a transport failure as exactly one system message. No finish
// sentinel follows: the turn is over.
func (c *Client) fail(ctx context.Context, out chan<- chat.Message, err error) {
	logger.Error("agent stream failed: %v", err)
	id := fmt.Sprintf("error_%d", time.Now().UnixNano())
	c.emit(ctx, out, chat.NewSystemErrorMessage(id, fmt.Sprintf("Error connecting to agent: %v.", err)))
}

var _ Transport = (*Client)(nil)
