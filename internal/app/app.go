package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/certquiz/internal/config"
	"github.com/gokatarajesh/certquiz/internal/llm"
	"github.com/gokatarajesh/certquiz/internal/logging"
	"github.com/gokatarajesh/certquiz/internal/metrics"
	"github.com/gokatarajesh/certquiz/internal/quiz"
	"github.com/gokatarajesh/certquiz/internal/server"
)

// Application aggregates the quiz engine and the HTTP server.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	metrics *metrics.Metrics
	engine  *quiz.Engine
	http    *http.Server
}

// Core is the transport-independent part of the service.
type Core struct {
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	Engine  *quiz.Engine
	Turns   *server.TurnHandler
}

// Build wires logger, metrics, the model provider and the engine.
func Build(ctx context.Context, cfg *config.App) (*Core, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	m := metrics.New()

	provider, err := llm.NewProvider(ctx, LLMConfig(cfg), logger, m)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}

	engine := quiz.NewEngine(provider, EngineOptions(cfg), logger, m)

	return &Core{
		Logger:  logger,
		Metrics: m,
		Engine:  engine,
		Turns:   server.NewTurnHandler(engine, logger),
	}, nil
}

// New bootstraps the core and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	core, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	apiServer := server.NewHTTPServer(cfg, server.RouterOptions{
		CORS:    cfg.CORS,
		Turns:   core.Turns,
		Rules:   core.Engine.Rules(),
		Metrics: core.Metrics.Handler(),
		Logger:  core.Logger,
	})

	return &Application{
		cfg:     cfg,
		logger:  core.Logger,
		metrics: core.Metrics,
		engine:  core.Engine,
		http:    apiServer,
	}, nil
}

// NewLambda bootstraps the core behind the API Gateway adapter.
func NewLambda(ctx context.Context, cfg *config.App) (*server.LambdaHandler, error) {
	core, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return server.NewLambdaHandler(core.Turns, cfg.CORS, core.Logger), nil
}

// LLMConfig maps application config onto the provider factory.
func LLMConfig(cfg *config.App) llm.Config {
	return llm.Config{
		Provider: cfg.LLM.Provider,
		Timeout:  cfg.LLM.Timeout,
		Bedrock: llm.BedrockConfig{
			Region:           cfg.Bedrock.Region,
			ModelID:          cfg.Bedrock.ModelID,
			InferenceProfile: cfg.Bedrock.InferenceProfile,
		},
		Anthropic: llm.AnthropicConfig{APIKey: cfg.Anthropic.APIKey, Model: cfg.Anthropic.Model},
		OpenAI:    llm.OpenAIConfig{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL},
		Gemini:    llm.GeminiConfig{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model},
	}
}

// EngineOptions maps application config onto engine options.
func EngineOptions(cfg *config.App) quiz.Options {
	return quiz.Options{
		Rules: quiz.Rules{
			Mode:          quiz.Mode(cfg.Quiz.Mode),
			SessionLength: cfg.Quiz.SessionLength,
			PassPercent:   cfg.Quiz.PassPercent,
			MaxDifficulty: cfg.Quiz.MaxDifficulty,
		},
		DefaultQuizType: cfg.Quiz.DefaultType,
		Sampling: quiz.Sampling{
			QuestionTokens:    cfg.LLM.MaxTokens,
			ExplanationTokens: cfg.LLM.ExplanationMaxTokens,
			Temperature:       cfg.LLM.Temperature,
			TopP:              cfg.LLM.TopP,
			TopK:              cfg.LLM.TopK,
		},
	}
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().
			Str("addr", a.cfg.HTTPAddr).
			Str("provider", a.cfg.LLM.Provider).
			Str("mode", a.cfg.Quiz.Mode).
			Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.http.Handler
}
