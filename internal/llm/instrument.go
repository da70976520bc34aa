package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/certquiz/internal/logging"
)

// Recorder receives one observation per model call.
type Recorder interface {
	ObserveLLM(provider, purpose string, elapsed time.Duration, err error)
}

// InstrumentedProvider is a decorator that logs and measures every call.
type InstrumentedProvider struct {
	inner    Provider
	name     string
	logger   zerolog.Logger
	recorder Recorder
}

// WithInstrumentation wraps a Provider with structured logging and metrics.
// recorder may be nil.
func WithInstrumentation(p Provider, name string, logger zerolog.Logger, recorder Recorder) Provider {
	return &InstrumentedProvider{
		inner:    p,
		name:     name,
		logger:   logger.With().Str("component", "llm").Str("provider", name).Logger(),
		recorder: recorder,
	}
}

func (i *InstrumentedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := i.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	if i.recorder != nil {
		i.recorder.ObserveLLM(i.name, purpose, elapsed, err)
	}

	// Prefer the request-scoped logger so request_id lands on the line.
	logger := i.logger
	if scoped := logging.FromContext(ctx); scoped.GetLevel() != zerolog.Disabled {
		logger = scoped.With().Str("component", "llm").Str("provider", i.name).Logger()
	}

	if err != nil {
		logger.Error().Err(err).
			Str("purpose", purpose).
			Dur("latency", elapsed).
			Msg("llm request failed")
		return nil, err
	}

	logger.Debug().
		Str("purpose", purpose).
		Str("model", resp.Model).
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Str("stop_reason", resp.StopReason).
		Dur("latency", elapsed).
		Msg("llm request completed")
	return resp, nil
}

func (i *InstrumentedProvider) ModelID() string {
	return i.inner.ModelID()
}
