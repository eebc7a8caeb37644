package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptHelpers(t *testing.T) {
	t.Run("should append without mutating the original", func(t *testing.T) {
		original := NewTranscript()
		appended := Append(original, NewUserMessage("1", "hi"))

		assert.Equal(t, 0, MessageCount(original))
		assert.Equal(t, 1, MessageCount(appended))
	})

	t.Run("should find the last agent message", func(t *testing.T) {
		transcript := Append(NewTranscript(), NewUserMessage("1", "hi"))
		transcript = Append(transcript, NewAgentMessage("2", "hello"))
		transcript = Append(transcript, NewUserMessage("3", "more"))

		msg, ok := LastAgentMessage(transcript)
		require.True(t, ok)
		assert.Equal(t, "hello", msg.Content)
	})

	t.Run("should report empty transcripts", func(t *testing.T) {
		assert.True(t, IsEmpty(NewTranscript()))

		_, ok := Last(NewTranscript())
		assert.False(t, ok)
	})
}

func TestReduceDeltaMerge(t *testing.T) {
	t.Run("should concatenate deltas of the same kind into the open message", func(t *testing.T) {
		transcript := Reduce(NewTranscript(), NewThoughtDelta("t1", "A"))
		before, ok := Last(transcript)
		require.True(t, ok)

		transcript = Reduce(transcript, NewThoughtDelta("t1", "B"))

		require.Equal(t, 1, MessageCount(transcript))
		merged, _ := Last(transcript)
		assert.Equal(t, "AB", merged.Content)
		assert.True(t, merged.Streaming)
		assert.Equal(t, before.ID, merged.ID)
		assert.Equal(t, before.Timestamp, merged.Timestamp, "timestamp fixed at first delta")
	})

	t.Run("should not merge into a closed trailing message", func(t *testing.T) {
		transcript := Append(NewTranscript(), NewAgentMessage("m1", "done"))
		transcript = Reduce(transcript, NewTextDelta("m2", "new"))

		require.Equal(t, 2, MessageCount(transcript))
		last, _ := Last(transcript)
		assert.Equal(t, "new", last.Content)
		assert.True(t, last.Streaming)
	})

	t.Run("should not merge into a user message", func(t *testing.T) {
		transcript := Append(NewTranscript(), NewUserMessage("u1", "hi"))
		transcript = Reduce(transcript, NewTextDelta("m1", "Hello"))

		assert.Equal(t, 2, MessageCount(transcript))
	})
}

func TestReduceKindBoundary(t *testing.T) {
	t.Run("should close the open text message when a tool call arrives", func(t *testing.T) {
		transcript := Reduce(NewTranscript(), NewTextDelta("m1", "thinking aloud"))
		transcript = Reduce(transcript, NewToolCallMessage("c1", ToolData{ID: "c1", Name: "search", Status: StatusCalling}))

		require.Equal(t, 2, MessageCount(transcript))
		closed := transcript.Messages[0]
		assert.False(t, closed.Streaming)
		assert.Equal(t, "thinking aloud", closed.Content)

		last, _ := Last(transcript)
		assert.Equal(t, KindToolCall, last.Kind)
		assert.False(t, last.Streaming)
	})

	t.Run("should close an open thought when a text delta arrives", func(t *testing.T) {
		transcript := Reduce(NewTranscript(), NewThoughtDelta("t1", "reasoning"))
		transcript = Reduce(transcript, NewTextDelta("m1", "Hi"))

		require.Equal(t, 2, MessageCount(transcript))
		assert.False(t, transcript.Messages[0].Streaming)
		assert.True(t, transcript.Messages[1].Streaming)
		assert.Equal(t, KindText, transcript.Messages[1].Kind)
	})
}

func TestReduceFinishSentinel(t *testing.T) {
	t.Run("should close the trailing agent message and never be stored", func(t *testing.T) {
		transcript := Reduce(NewTranscript(), NewTextDelta("m1", "Hello"))
		transcript = Reduce(transcript, Finish())

		require.Equal(t, 1, MessageCount(transcript))
		last, _ := Last(transcript)
		assert.False(t, last.Streaming)
		assert.Equal(t, "Hello", last.Content)
	})

	t.Run("should be idempotent on an already closed trailing message", func(t *testing.T) {
		transcript := Reduce(NewTranscript(), NewTextDelta("m1", "Hello"))
		once := Reduce(transcript, Finish())
		twice := Reduce(once, Finish())

		assert.Equal(t, once, twice)
	})

	t.Run("should leave an empty transcript unchanged", func(t *testing.T) {
		transcript := Reduce(NewTranscript(), Finish())
		assert.True(t, IsEmpty(transcript))
	})

	t.Run("should not close a trailing user message", func(t *testing.T) {
		transcript := Append(NewTranscript(), NewUserMessage("u1", "hi"))
		reduced := Reduce(transcript, Finish())
		assert.Equal(t, transcript, reduced)
	})
}

func TestReduceEndToEnd(t *testing.T) {
	t.Run("should fold a full text turn onto prior history", func(t *testing.T) {
		transcript := Append(NewTranscript(), NewUserMessage("u1", "hi"))
		transcript = ReduceAll(transcript, []Message{
			NewTextDelta("m1", "Hi"),
			NewTextDelta("m1", " there"),
			Finish(),
		})

		require.Equal(t, 2, MessageCount(transcript))
		assert.Equal(t, SenderUser, transcript.Messages[0].Sender)

		reply := transcript.Messages[1]
		assert.Equal(t, "Hi there", reply.Content)
		assert.Equal(t, KindText, reply.Kind)
		assert.False(t, reply.Streaming)
	})

	t.Run("should keep a mixed turn in delivery order", func(t *testing.T) {
		transcript := ReduceAll(NewTranscript(), []Message{
			NewToolCallMessage("c1", ToolData{ID: "c1", Name: "search", Status: StatusCalling}),
			NewToolResultMessage("c1_res", "found", ToolData{ID: "c1", Name: "search", Status: StatusSuccess}),
			NewThoughtDelta("t1", "let me "),
			NewThoughtDelta("t1", "think"),
			NewTextDelta("m1", "Answer"),
			Finish(),
		})

		require.Equal(t, 4, MessageCount(transcript))
		assert.Equal(t, KindToolCall, transcript.Messages[0].Kind)
		assert.Equal(t, KindToolResult, transcript.Messages[1].Kind)
		assert.Equal(t, "let me think", transcript.Messages[2].Content)
		assert.Equal(t, "Answer", transcript.Messages[3].Content)
		for _, msg := range transcript.Messages {
			assert.False(t, msg.Streaming)
		}
	})
}
