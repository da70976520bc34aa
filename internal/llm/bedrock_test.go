package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBedrockBody(t *testing.T) {
	body := buildBedrockBody(Request{
		Prompt:      "Generate a question.",
		MaxTokens:   200,
		Temperature: 1,
		TopP:        0.999,
		TopK:        250,
	})

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "bedrock-2023-05-31", got["anthropic_version"])
	assert.EqualValues(t, 200, got["max_tokens"])
	assert.EqualValues(t, 1, got["temperature"])
	assert.EqualValues(t, 0.999, got["top_p"])
	assert.EqualValues(t, 250, got["top_k"])
	assert.Equal(t, []any{}, got["stop_sequences"])

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	content := msg["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "text", content["type"])
	assert.Equal(t, "Generate a question.", content["text"])
}

func TestBuildBedrockBody_OmitsUnsetSampling(t *testing.T) {
	raw, err := json.Marshal(buildBedrockBody(Request{Prompt: "x"}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.EqualValues(t, defaultMaxTokens, got["max_tokens"])
	assert.NotContains(t, got, "temperature")
	assert.NotContains(t, got, "top_p")
	assert.NotContains(t, got, "top_k")
}

func TestBedrockAccumulator(t *testing.T) {
	acc := &bedrockAccumulator{model: "configured"}
	chunks := []string{
		`{"type":"message_start","message":{"model":"claude-3-5-sonnet","usage":{"input_tokens":120}}}`,
		`{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"{\"question\":"}}`,
		`not json at all`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"\"Q?\"}"}}`,
		`{"type":"content_block_stop","index":0}`,
		`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":42}}`,
		`{"type":"message_stop"}`,
	}
	for _, c := range chunks {
		acc.add([]byte(c))
	}

	resp := acc.response()
	assert.Equal(t, `{"question":"Q?"}`, resp.Text)
	assert.Equal(t, "claude-3-5-sonnet", resp.Model)
	assert.Equal(t, 120, resp.Usage.InputTokens)
	assert.Equal(t, 42, resp.Usage.OutputTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, 1, acc.skipped)
}

func TestBedrockAccumulator_MaxTokens(t *testing.T) {
	acc := &bedrockAccumulator{model: "m"}
	acc.add([]byte(`{"type":"message_delta","delta":{"stop_reason":"max_tokens"},"usage":{"output_tokens":200}}`))

	resp := acc.response()
	assert.Equal(t, "max_tokens", resp.StopReason)
	assert.Equal(t, "m", resp.Model)
	assert.Empty(t, resp.Text)
}

func TestMapBedrockError(t *testing.T) {
	var rl *ErrRateLimit
	assert.True(t, errors.As(mapBedrockError(&types.ThrottlingException{}), &rl))
	assert.True(t, errors.As(mapBedrockError(&types.ServiceQuotaExceededException{}), &rl))

	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(mapBedrockError(&types.AccessDeniedException{}), &unavail))
	assert.True(t, errors.As(mapBedrockError(errors.New("dial tcp: timeout")), &unavail))
}
