package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config selects and configures one provider.
type Config struct {
	Provider  string // bedrock, anthropic, openai, gemini, mock
	Timeout   time.Duration
	Bedrock   BedrockConfig
	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
}

// NewProvider builds the configured provider and wraps it with
// instrumentation and a per-call timeout. recorder may be nil.
func NewProvider(ctx context.Context, cfg Config, logger zerolog.Logger, recorder Recorder) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch cfg.Provider {
	case "bedrock":
		base, err = NewBedrockProvider(ctx, cfg.Bedrock)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewDemoProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", base.ModelID()).
		Dur("timeout", cfg.Timeout).
		Msg("llm provider ready")

	p := WithInstrumentation(base, cfg.Provider, logger, recorder)
	return WithTimeout(p, cfg.Timeout), nil
}
