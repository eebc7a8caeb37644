package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentchat/agentchat/pkg/chat"
	"github.com/agentchat/agentchat/pkg/sse"
)

func record(event, id, data string) sse.Record {
	return sse.Record{Event: event, ID: id, Data: json.RawMessage(data)}
}

func TestMapStepDelta(t *testing.T) {
	t.Run("should emit one tool call per invocation in a batch", func(t *testing.T) {
		rec := record(EventStepDelta, "step_1", `{"choices":[{"delta":{"step_details":{
			"type":"tool_calls",
			"tool_calls":[
				{"id":"call_1","name":"search","args":{"query":"guides"}},
				{"id":"call_2","name":"fetch","args":{}}
			]}}}]}`)

		msgs := MapRecord(rec)

		require.Len(t, msgs, 2)
		assert.Equal(t, chat.KindToolCall, msgs[0].Kind)
		assert.Equal(t, "call_1", msgs[0].Tool.ID)
		assert.Equal(t, "search", msgs[0].Tool.Name)
		assert.Equal(t, "guides", msgs[0].Tool.Args["query"])
		assert.Equal(t, chat.StatusCalling, msgs[0].Tool.Status)
		assert.False(t, msgs[0].Streaming)
		assert.Equal(t, "fetch", msgs[1].Tool.Name)
	})

	t.Run("should never surface the internal planning tool", func(t *testing.T) {
		calls := record(EventStepDelta, "step_1", `{"choices":[{"delta":{"step_details":{
			"type":"tool_calls","tool_calls":[{"id":"call_1","name":"think","args":{}}]}}}]}`)
		response := record(EventStepDelta, "step_2", `{"choices":[{"delta":{"step_details":{
			"type":"tool_response","name":"think","content":"internal","tool_call_id":"call_1"}}}]}`)

		assert.Empty(t, MapRecord(calls))
		assert.Empty(t, MapRecord(response))
	})

	t.Run("should fall back to the record id when the call carries none", func(t *testing.T) {
		rec := record(EventStepDelta, "step_9", `{"choices":[{"delta":{"step_details":{
			"type":"tool_calls","tool_calls":[{"name":"search"}]}}}]}`)

		msgs := MapRecord(rec)
		require.Len(t, msgs, 1)
		assert.Equal(t, "step_9", msgs[0].ID)
	})

	t.Run("should map tool responses with correlation id and success status", func(t *testing.T) {
		rec := record(EventStepDelta, "step_2", `{"choices":[{"delta":{"step_details":{
			"type":"tool_response","name":"search","content":"found it","tool_call_id":"call_1"}}}]}`)

		msgs := MapRecord(rec)

		require.Len(t, msgs, 1)
		assert.Equal(t, chat.KindToolResult, msgs[0].Kind)
		assert.Equal(t, "call_1_res", msgs[0].ID)
		assert.Equal(t, "found it", msgs[0].Content)
		assert.Equal(t, "call_1", msgs[0].Tool.ID)
		assert.Equal(t, chat.StatusSuccess, msgs[0].Tool.Status)
		assert.Equal(t, "found it", msgs[0].Tool.Result)
	})

	t.Run("should ignore unknown step detail types", func(t *testing.T) {
		rec := record(EventStepDelta, "step_3", `{"choices":[{"delta":{"step_details":{"type":"telemetry"}}}]}`)
		assert.Empty(t, MapRecord(rec))
	})
}

func TestMapMessageDelta(t *testing.T) {
	t.Run("should map string content to an open text delta", func(t *testing.T) {
		rec := record(EventMessageDelta, "msg_1", `{"choices":[{"delta":{"content":"Hello"}}]}`)

		msgs := MapRecord(rec)

		require.Len(t, msgs, 1)
		assert.Equal(t, chat.KindText, msgs[0].Kind)
		assert.Equal(t, "Hello", msgs[0].Content)
		assert.True(t, msgs[0].Streaming)
		assert.Equal(t, "msg_1", msgs[0].ID)
	})

	t.Run("should map thinking-tagged content to an open thought delta", func(t *testing.T) {
		rec := record(EventMessageDelta, "msg_2", `{"choices":[{"delta":{"content":{"type":"thinking","content":"hmm"}}}]}`)

		msgs := MapRecord(rec)

		require.Len(t, msgs, 1)
		assert.Equal(t, chat.KindThought, msgs[0].Kind)
		assert.Equal(t, "hmm", msgs[0].Content)
		assert.True(t, msgs[0].Streaming)
	})

	t.Run("should use stable fallback ids when the record has none", func(t *testing.T) {
		text := record(EventMessageDelta, "", `{"choices":[{"delta":{"content":"a"}}]}`)
		thought := record(EventMessageDelta, "", `{"choices":[{"delta":{"content":{"type":"thinking","content":"b"}}}]}`)

		assert.Equal(t, "streaming_text", MapRecord(text)[0].ID)
		assert.Equal(t, "streaming_thought", MapRecord(thought)[0].ID)
	})

	t.Run("should ignore unrecognized content shapes", func(t *testing.T) {
		number := record(EventMessageDelta, "msg_3", `{"choices":[{"delta":{"content":42}}]}`)
		tagged := record(EventMessageDelta, "msg_4", `{"choices":[{"delta":{"content":{"type":"image"}}}]}`)
		empty := record(EventMessageDelta, "msg_5", `{"choices":[{"delta":{}}]}`)

		assert.Empty(t, MapRecord(number))
		assert.Empty(t, MapRecord(tagged))
		assert.Empty(t, MapRecord(empty))
	})
}

func TestMapUnknownEvents(t *testing.T) {
	t.Run("should ignore unknown event types", func(t *testing.T) {
		rec := record("thread.run.completed", "run_1", `{"status":"done"}`)
		assert.Empty(t, MapRecord(rec))
	})

	t.Run("should ignore undecodable payloads", func(t *testing.T) {
		rec := record(EventMessageDelta, "msg_1", `{"choices":"oops"}`)
		assert.Empty(t, MapRecord(rec))
	})
}
