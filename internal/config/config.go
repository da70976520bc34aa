package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Supported LLM providers.
const (
	ProviderBedrock   = "bedrock"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"certquiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Quiz      Quiz
	LLM       LLM
	Bedrock   Bedrock
	Anthropic Anthropic
	OpenAI    OpenAI
	Gemini    Gemini
	CORS      CORS
}

// Quiz groups session protocol defaults.
type Quiz struct {
	Mode          string `env:"QUIZ_MODE" envDefault:"fixed"`
	SessionLength int    `env:"QUIZ_SESSION_LENGTH" envDefault:"10"`
	PassPercent   int    `env:"QUIZ_PASS_PERCENT" envDefault:"70"`
	MaxDifficulty int    `env:"QUIZ_MAX_DIFFICULTY" envDefault:"10"`
	DefaultType   string `env:"QUIZ_DEFAULT_TYPE" envDefault:"ai-practitioner"`
}

// LLM configures model calls regardless of provider.
type LLM struct {
	Provider             string        `env:"LLM_PROVIDER" envDefault:"bedrock"`
	Timeout              time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	MaxTokens            int           `env:"LLM_MAX_TOKENS" envDefault:"400"`
	ExplanationMaxTokens int           `env:"LLM_EXPLANATION_MAX_TOKENS" envDefault:"200"`
	Temperature          float64       `env:"LLM_TEMPERATURE" envDefault:"1"`
	TopP                 float64       `env:"LLM_TOP_P" envDefault:"0.999"`
	TopK                 int           `env:"LLM_TOP_K" envDefault:"250"`
}

// Bedrock holds AWS Bedrock runtime settings. Credentials come from the
// default AWS chain (env, shared config, Lambda role).
type Bedrock struct {
	Region           string `env:"AWS_REGION" envDefault:"us-west-2"`
	ModelID          string `env:"BEDROCK_MODEL_ID" envDefault:"anthropic.claude-3-5-sonnet-20241022-v2:0"`
	InferenceProfile string `env:"BEDROCK_INFERENCE_PROFILE"`
}

// Anthropic configures the direct Anthropic API provider.
type Anthropic struct {
	APIKey string `env:"ANTHROPIC_API_KEY"`
	Model  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku"`
}

// OpenAI configures OpenAI or any compatible endpoint.
type OpenAI struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"OPENAI_BASE_URL"`
}

// Gemini configures the Google Gemini provider.
type Gemini struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-flash"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"86400"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the engine or providers cannot run with.
func (a *App) Validate() error {
	switch a.Quiz.Mode {
	case "fixed", "adaptive":
	default:
		return fmt.Errorf("QUIZ_MODE must be fixed or adaptive, got %q", a.Quiz.Mode)
	}
	if a.Quiz.SessionLength < 1 {
		return fmt.Errorf("QUIZ_SESSION_LENGTH must be positive")
	}
	if a.Quiz.PassPercent < 0 || a.Quiz.PassPercent > 100 {
		return fmt.Errorf("QUIZ_PASS_PERCENT must be within 0..100")
	}
	if a.Quiz.MaxDifficulty < 1 {
		return fmt.Errorf("QUIZ_MAX_DIFFICULTY must be positive")
	}
	if a.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if a.LLM.MaxTokens <= 0 || a.LLM.ExplanationMaxTokens <= 0 {
		return fmt.Errorf("LLM token limits must be positive")
	}

	switch a.LLM.Provider {
	case ProviderBedrock:
		if a.Bedrock.Region == "" || a.Bedrock.ModelID == "" {
			return fmt.Errorf("AWS_REGION and BEDROCK_MODEL_ID are required for the bedrock provider")
		}
	case ProviderAnthropic:
		if a.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if a.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if a.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", a.LLM.Provider)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (a *App) IsProduction() bool {
	return a.Env == "production"
}
