package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// BedrockConfig holds AWS Bedrock runtime settings.
type BedrockConfig struct {
	Region  string
	ModelID string
	// InferenceProfile, when set, is sent as the model id. Newer Claude
	// models are only invocable through a cross-region inference profile.
	InferenceProfile string
}

type bedrockStreamAPI interface {
	InvokeModelWithResponseStream(ctx context.Context, params *bedrockruntime.InvokeModelWithResponseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelWithResponseStreamOutput, error)
}

// BedrockProvider implements Provider against Anthropic models hosted on
// AWS Bedrock, using the streaming invoke API.
type BedrockProvider struct {
	client bedrockStreamAPI
	model  string
}

// NewBedrockProvider loads AWS credentials from the default chain and
// creates a Bedrock runtime client.
func NewBedrockProvider(ctx context.Context, cfg BedrockConfig) (*BedrockProvider, error) {
	if cfg.ModelID == "" && cfg.InferenceProfile == "" {
		return nil, fmt.Errorf("bedrock model id is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	model := cfg.ModelID
	if cfg.InferenceProfile != "" {
		model = cfg.InferenceProfile
	}

	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  model,
	}, nil
}

func (p *BedrockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(buildBedrockBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshal bedrock body: %w", err)
	}

	out, err := p.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(p.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, mapBedrockError(err)
	}

	stream := out.GetStream()
	defer stream.Close()

	acc := &bedrockAccumulator{model: p.model}
	for event := range stream.Events() {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}
		acc.add(chunk.Value.Bytes)
	}
	if err := stream.Err(); err != nil {
		return nil, mapBedrockError(err)
	}

	return acc.response(), nil
}

func (p *BedrockProvider) ModelID() string {
	return p.model
}

type bedrockBody struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Temperature      *float64         `json:"temperature,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	TopK             *int             `json:"top_k,omitempty"`
	StopSequences    []string         `json:"stop_sequences"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockMessage struct {
	Role    string           `json:"role"`
	Content []bedrockContent `json:"content"`
}

type bedrockContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func buildBedrockBody(req Request) bedrockBody {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body := bedrockBody{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        maxTokens,
		StopSequences:    []string{},
		Messages: []bedrockMessage{{
			Role:    "user",
			Content: []bedrockContent{{Type: "text", Text: req.Prompt}},
		}},
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}
	if req.TopP > 0 {
		body.TopP = &req.TopP
	}
	if req.TopK > 0 {
		body.TopK = &req.TopK
	}
	return body
}

// bedrockEvent is one decoded chunk of the Anthropic messages stream.
type bedrockEvent struct {
	Type    string `json:"type"`
	Message *struct {
		Model string       `json:"model"`
		Usage bedrockUsage `json:"usage"`
	} `json:"message"`
	Delta *struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	Usage *bedrockUsage `json:"usage"`
}

type bedrockUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// bedrockAccumulator folds stream chunks into a single Response.
// Undecodable chunks are skipped; the text deltas around them still count.
type bedrockAccumulator struct {
	model      string
	text       strings.Builder
	usage      Usage
	stopReason string
	skipped    int
}

func (a *bedrockAccumulator) add(chunk []byte) {
	var ev bedrockEvent
	if err := json.Unmarshal(chunk, &ev); err != nil {
		a.skipped++
		return
	}

	switch ev.Type {
	case "message_start":
		if ev.Message != nil {
			if ev.Message.Model != "" {
				a.model = ev.Message.Model
			}
			a.usage.InputTokens = ev.Message.Usage.InputTokens
		}
	case "content_block_delta":
		if ev.Delta != nil && ev.Delta.Text != "" {
			a.text.WriteString(ev.Delta.Text)
		}
	case "message_delta":
		if ev.Delta != nil && ev.Delta.StopReason != "" {
			a.stopReason = ev.Delta.StopReason
		}
		if ev.Usage != nil {
			a.usage.OutputTokens = ev.Usage.OutputTokens
		}
	}
}

func (a *bedrockAccumulator) response() *Response {
	stop := "end"
	if a.stopReason == "max_tokens" {
		stop = "max_tokens"
	}
	return &Response{
		Text:       a.text.String(),
		Usage:      a.usage,
		Model:      a.model,
		StopReason: stop,
	}
}

func mapBedrockError(err error) error {
	var throttled *types.ThrottlingException
	if errors.As(err, &throttled) {
		return &ErrRateLimit{Err: err}
	}
	var quota *types.ServiceQuotaExceededException
	if errors.As(err, &quota) {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
