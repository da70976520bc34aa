package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/certquiz/internal/config"
	"github.com/gokatarajesh/certquiz/internal/quiz"
)

func mockConfig(t *testing.T) *config.App {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("LOG_LEVEL", "disabled")
	cfg, err := config.Load(context.Background())
	require.NoError(t, err)
	return cfg
}

func TestNewServesTurnsWithDemoProvider(t *testing.T) {
	a, err := New(context.Background(), mockConfig(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(`{"score":0,"questionNumber":1}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"correctAnswer"`)
	assert.Contains(t, rec.Body.String(), `"fallbackUsed":false`)

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `quiz_llm_requests_total{outcome="ok",provider="mock",purpose="question"} 1`)
	assert.Contains(t, rec.Body.String(), `quiz_turns_total{mode="fixed",outcome="next_question"} 1`)
}

func TestNewLambda(t *testing.T) {
	h, err := NewLambda(context.Background(), mockConfig(t))
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEngineOptionsFromConfig(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Quiz.Mode = "adaptive"
	cfg.LLM.TopK = 100

	opts := EngineOptions(cfg)
	assert.Equal(t, quiz.ModeAdaptive, opts.Rules.Mode)
	assert.Equal(t, 10, opts.Rules.SessionLength)
	assert.Equal(t, 100, opts.Sampling.TopK)
	assert.Equal(t, 400, opts.Sampling.QuestionTokens)

	llmCfg := LLMConfig(cfg)
	assert.Equal(t, "mock", llmCfg.Provider)
	assert.Equal(t, 30*time.Second, llmCfg.Timeout)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := mockConfig(t)
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GracefulShutdownTimeout = time.Second

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
