package llm

import "context"

// Provider is the model-query capability the quiz engine depends on:
// one prompt in, generated text out.
type Provider interface {
	// Generate sends the prompt to the model and returns its text reply.
	// Failures are reported as *ErrProviderUnavailable or *ErrRateLimit.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single-turn generation.
type Request struct {
	// Prompt is sent as the only user message.
	Prompt string

	// MaxTokens caps the reply length. Providers apply their own default
	// when zero.
	MaxTokens int

	// Temperature, TopP and TopK are forwarded when the provider supports
	// them; zero values leave the provider default in place.
	Temperature float64
	TopP        float64
	TopK        int
}

// Response holds the model's reply.
type Response struct {
	Text       string
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

const defaultMaxTokens = 400
