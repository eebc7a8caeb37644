package chat

// Transcript is the ordered sequence of messages for one session. It is
// append-only except for the in-place amendment of the trailing open message,
// and all helpers are pure: they return new values and never mutate their
// input.
type Transcript struct {
	Messages []Message
}

func NewTranscript() Transcript {
	return Transcript{Messages: make([]Message, 0)}
}

func Append(t Transcript, msg Message) Transcript {
	messages := make([]Message, len(t.Messages)+1)
	copy(messages, t.Messages)
	messages[len(t.Messages)] = msg

	return Transcript{Messages: messages}
}

func Messages(t Transcript) []Message {
	result := make([]Message, len(t.Messages))
	copy(result, t.Messages)
	return result
}

func MessageCount(t Transcript) int {
	return len(t.Messages)
}

func IsEmpty(t Transcript) bool {
	return len(t.Messages) == 0
}

func Last(t Transcript) (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

func LastAgentMessage(t Transcript) (Message, bool) {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		msg := t.Messages[i]
		if msg.IsAgent() {
			return msg, true
		}
	}
	return Message{}, false
}

func LastUserMessage(t Transcript) (Message, bool) {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		msg := t.Messages[i]
		if msg.IsUser() {
			return msg, true
		}
	}
	return Message{}, false
}

// replaceLast swaps the trailing element for msg. Caller guarantees the
// transcript is non-empty.
func replaceLast(t Transcript, msg Message) Transcript {
	messages := make([]Message, len(t.Messages))
	copy(messages, t.Messages)
	messages[len(messages)-1] = msg

	return Transcript{Messages: messages}
}

// Reduce folds one incoming message into the transcript. It is the single
// state machine deciding merge-vs-append-vs-close, and it preserves the
// invariant that at most one message is open at a time and that it is the
// trailing element. Rules apply in order, first match wins:
//
//  1. the finish sentinel closes the trailing agent message and is dropped
//  2. a streaming delta merges into an open trailing agent message of the
//     same kind
//  3. any other message closes whatever is open, then is appended
//  4. otherwise the message is appended as-is
func Reduce(t Transcript, incoming Message) Transcript {
	last, ok := Last(t)

	if incoming.IsFinish() {
		if ok && last.IsAgent() {
			return replaceLast(t, last.closed())
		}
		return t
	}

	if incoming.Streaming && ok && last.IsAgent() && last.Streaming && last.Kind == incoming.Kind {
		merged := last
		merged.Content = last.Content + incoming.Content
		return replaceLast(t, merged)
	}

	if ok && last.Streaming {
		return Append(replaceLast(t, last.closed()), incoming)
	}

	return Append(t, incoming)
}

// ReduceAll folds a sequence of messages in delivery order.
func ReduceAll(t Transcript, incoming []Message) Transcript {
	for _, msg := range incoming {
		t = Reduce(t, msg)
	}
	return t
}
