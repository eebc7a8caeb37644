package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agentchat/agentchat/pkg/agent"
	"github.com/agentchat/agentchat/pkg/chat"
	"github.com/agentchat/agentchat/pkg/logger"
)

var (
	// ErrEmptyMessage rejects blank or whitespace-only input.
	ErrEmptyMessage = errors.New("message content cannot be empty")
	// ErrTurnInFlight rejects a turn while another is active. Turns are
	// refused, never queued.
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// Hooks are the optional external collaborators of a session.
type Hooks struct {
	// LoadContext supplies the bootstrap context object during Initialize.
	LoadContext func(ctx context.Context) (map[string]any, error)
	// PreSend transforms outgoing input; ok=false vetoes the send with no
	// transcript change.
	PreSend func(input string) (transformed string, ok bool)
	// PostSend is notified once per completed send that produced an agent
	// reply. Fire and forget.
	PostSend func(userMessage, agentMessage chat.Message)
}

// SessionController owns the transcript for the lifetime of one chat session
// and drives turns over its transport. Only one turn (Initialize or Send) may
// be active at a time; the transcript is only ever mutated through the
// reducer.
type SessionController struct {
	mu         sync.Mutex
	transport  agent.Transport
	hooks      Hooks
	transcript chat.Transcript
	sending    bool
	// turn is the generation fence: Restart bumps it, and any message still
	// arriving from an older generation is discarded instead of being merged
	// into the fresh transcript.
	turn uint64
}

func NewSessionController(transport agent.Transport) *SessionController {
	return NewSessionControllerWithHooks(transport, Hooks{})
}

func NewSessionControllerWithHooks(transport agent.Transport, hooks Hooks) *SessionController {
	return &SessionController{
		transport:  transport,
		hooks:      hooks,
		transcript: chat.NewTranscript(),
	}
}

// Initialize loads the bootstrap context, derives the hidden bootstrap prompt
// and drives the opening turn against an empty history. A context-loader
// failure is recovered locally with a fallback greeting; the session still
// reaches ready.
func (sc *SessionController) Initialize(ctx context.Context) error {
	gen, err := sc.beginTurn()
	if err != nil {
		return err
	}
	defer sc.endTurn(gen)

	bootstrap := map[string]any{}
	if sc.hooks.LoadContext != nil {
		loaded, err := sc.hooks.LoadContext(ctx)
		if err != nil {
			logger.Warn("context loader failed, using fallback greeting: %v", err)
			sc.apply(gen, chat.NewAgentMessage("init_error",
				"Hello! I'm ready to help. (Connection issue detected during initialization)"))
			return nil
		}
		if loaded != nil {
			bootstrap = loaded
		}
	}

	sc.runTurn(ctx, gen, nil, bootstrapPrompt(bootstrap), bootstrap)
	return nil
}

// Send drives one user turn. Empty input and concurrent sends are rejected; a
// pre-send veto is a silent no-op. The user message is appended before the
// network round trip begins.
func (sc *SessionController) Send(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyMessage
	}

	gen, err := sc.beginTurn()
	if err != nil {
		return err
	}
	defer sc.endTurn(gen)

	text := input
	if sc.hooks.PreSend != nil {
		transformed, ok := sc.hooks.PreSend(input)
		if !ok || strings.TrimSpace(transformed) == "" {
			return nil
		}
		text = transformed
	}

	userMsg := chat.NewUserMessage(fmt.Sprintf("%d", time.Now().UnixNano()), text)

	sc.mu.Lock()
	if sc.turn != gen {
		sc.mu.Unlock()
		return nil
	}
	history := chat.Messages(sc.transcript)
	// Reduce, not Append: a trailing message left open by an abandoned turn
	// gets closed before the new user turn lands.
	sc.transcript = chat.Reduce(sc.transcript, userMsg)
	sc.mu.Unlock()

	reply, produced := sc.runTurn(ctx, gen, history, text, nil)

	if produced && sc.hooks.PostSend != nil {
		sc.hooks.PostSend(userMsg, reply)
	}
	return nil
}

// Restart discards the transcript, fences off any in-flight turn and
// re-enters initialization.
func (sc *SessionController) Restart(ctx context.Context) error {
	sc.mu.Lock()
	sc.turn++
	sc.sending = false
	sc.transcript = chat.NewTranscript()
	sc.mu.Unlock()

	logger.Info("session restarted")
	return sc.Initialize(ctx)
}

// Transcript returns a copy of the current transcript.
func (sc *SessionController) Transcript() chat.Transcript {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return chat.Transcript{Messages: chat.Messages(sc.transcript)}
}

// Sending reports whether a turn is currently in flight.
func (sc *SessionController) Sending() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sending
}

// runTurn consumes one transport stream, reducing every yielded message into
// the transcript in delivery order. Returns the turn's own agent reply as it
// stood when the stream ended and whether the turn produced one at all; a
// restart mid-stream leaves the reply at whatever this turn got to apply,
// never a later generation's message.
func (sc *SessionController) runTurn(ctx context.Context, gen uint64, history []chat.Message, userText string, bootstrap map[string]any) (chat.Message, bool) {
	var reply chat.Message
	produced := false
	for msg := range sc.transport.Stream(ctx, history, userText, bootstrap) {
		last, applied := sc.apply(gen, msg)
		if !applied {
			// Stale turn: drain the channel without touching the transcript.
			continue
		}
		if msg.IsAgent() && !msg.IsFinish() {
			produced = true
		}
		if produced && last != nil {
			reply = *last
		}
	}
	return reply, produced
}

// apply reduces one message into the transcript unless the turn has been
// superseded by a restart. Returns the reduced transcript's last agent
// message, snapshotted under the same lock.
func (sc *SessionController) apply(gen uint64, msg chat.Message) (*chat.Message, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.turn != gen {
		logger.Debug("discarding message from stale turn %d", gen)
		return nil, false
	}
	sc.transcript = chat.Reduce(sc.transcript, msg)
	if last, ok := chat.LastAgentMessage(sc.transcript); ok {
		return &last, true
	}
	return nil, true
}

func (sc *SessionController) beginTurn() (uint64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.sending {
		return 0, ErrTurnInFlight
	}
	sc.sending = true
	return sc.turn, nil
}

func (sc *SessionController) endTurn(gen uint64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// A restart already released the gate for its own generation.
	if sc.turn == gen {
		sc.sending = false
	}
}

// bootstrapPrompt derives the hidden opening prompt. It never appears in the
// transcript; it only seeds the agent's welcome turn.
func bootstrapPrompt(bootstrap map[string]any) string {
	if ciID, ok := bootstrap["ci_id"]; ok {
		return fmt.Sprintf("This is the first chat conversation with user for Client Interest Id: %v. "+
			"User has clicked on the link sent via email and now you need to help user with "+
			"their queries on products, trials and demos.", ciID)
	}
	return "Hello"
}
