package chat

// Entry is one display row: either a single text/user/system message or a
// contiguous run of agent activity (thoughts, tool calls, tool results)
// collapsed into one expandable group.
type Entry struct {
	Message  Message
	Activity []Message
}

func (e Entry) IsGroup() bool {
	return len(e.Activity) > 0
}

// GroupMessages projects the transcript into display entries. The projection
// is deterministic for a fixed transcript and never mutates it; callers
// re-derive it on every render.
func GroupMessages(t Transcript) []Entry {
	var entries []Entry
	var run []Message

	flush := func() {
		if len(run) > 0 {
			entries = append(entries, Entry{Activity: run})
			run = nil
		}
	}

	for _, msg := range t.Messages {
		if msg.IsActivity() {
			run = append(run, msg)
			continue
		}
		flush()
		entries = append(entries, Entry{Message: msg})
	}
	flush()

	return entries
}

// StatusText is the collapsed header line for an activity group. While the
// group is still active it names what the agent is doing; afterwards it is a
// static label.
func (e Entry) StatusText(loading bool) string {
	if !e.IsGroup() {
		return ""
	}

	streaming := false
	active := e.Activity[len(e.Activity)-1]
	for _, msg := range e.Activity {
		if msg.Streaming {
			streaming = true
			active = msg
			break
		}
	}

	if !streaming && !loading {
		return "Agent Actions"
	}

	switch active.Kind {
	case KindThought, KindToolResult:
		return "Thinking..."
	case KindToolCall:
		if active.Tool != nil && active.Tool.Name != "" {
			return "Executing: " + active.Tool.Name
		}
		return "Executing: Tool"
	case KindText:
		return "Running..."
	}
	return "Running..."
}
