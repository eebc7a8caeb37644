// Package testutil provides scripted fakes for exercising the session
// orchestrator without a network.
package testutil

import (
	"context"
	"sync"

	"github.com/agentchat/agentchat/pkg/agent"
	"github.com/agentchat/agentchat/pkg/chat"
)

// FakeTransport implements agent.Transport by replaying a scripted sequence
// of messages. It records every call so tests can assert on the history and
// prompt that were sent.
type FakeTransport struct {
	mu      sync.Mutex
	Script  []chat.Message
	calls   []Call
	release chan struct{} // when set, the stream blocks until Release
}

// Call captures the arguments of one Stream invocation.
type Call struct {
	History   []chat.Message
	UserText  string
	Bootstrap map[string]any
}

func NewFakeTransport(script ...chat.Message) *FakeTransport {
	return &FakeTransport{Script: script}
}

// Block makes subsequent streams wait between the first scripted message and
// the rest until Release is called. Used to hold a turn in flight.
func (f *FakeTransport) Block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.release = make(chan struct{})
}

// Release unblocks a held stream.
func (f *FakeTransport) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.release != nil {
		close(f.release)
		f.release = nil
	}
}

// Calls returns the recorded Stream invocations.
func (f *FakeTransport) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// LastCall returns the most recent Stream invocation.
func (f *FakeTransport) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// Stream implements agent.Transport.
func (f *FakeTransport) Stream(ctx context.Context, history []chat.Message, userText string, bootstrap map[string]any) <-chan chat.Message {
	f.mu.Lock()
	f.calls = append(f.calls, Call{History: history, UserText: userText, Bootstrap: bootstrap})
	script := make([]chat.Message, len(f.Script))
	copy(script, f.Script)
	release := f.release
	f.mu.Unlock()

	out := make(chan chat.Message, len(script)+1)
	go func() {
		defer close(out)
		for i, msg := range script {
			if i == 1 && release != nil {
				select {
				case <-release:
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

var _ agent.Transport = (*FakeTransport)(nil)
