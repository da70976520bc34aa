package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/certquiz/internal/config"
	"github.com/gokatarajesh/certquiz/internal/llm"
	"github.com/gokatarajesh/certquiz/internal/quiz"
	"github.com/gokatarajesh/certquiz/internal/server"
)

// newQuizServer runs the real router and engine against the demo model.
func newQuizServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.New(io.Discard)
	engine := quiz.NewEngine(llm.NewDemoProvider(), quiz.Options{}, logger, nil)
	handler := server.NewRouter(server.RouterOptions{
		CORS:   config.CORS{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"POST", "OPTIONS"}},
		Turns:  server.NewTurnHandler(engine, logger),
		Rules:  engine.Rules(),
		Logger: logger,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSessionFixedRoundTrip(t *testing.T) {
	srv := newQuizServer(t)
	s := NewSession(newTestClient(t, srv.URL), quiz.ProfileAIPractitioner, quiz.ModeFixed)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.Current())
	assert.Equal(t, 1, s.QuestionNumber())
	assert.Equal(t, 10, s.TotalQuestions())
	assert.Nil(t, s.Feedback())

	for i := 0; i < 10; i++ {
		answer := s.Current().CorrectAnswer
		if i%3 == 0 {
			answer = wrongLetter(answer)
		}
		require.NoError(t, s.Answer(ctx, answer))
		require.NotNil(t, s.Feedback())
	}

	assert.True(t, s.NeedsCompletion())
	require.NoError(t, s.Finish(ctx))
	assert.True(t, s.Done())

	c := s.Completion()
	require.NotNil(t, c)
	assert.Equal(t, 6, c.FinalScore)
	assert.Equal(t, 60, c.Percentage)
	assert.False(t, c.Passed)
	assert.Equal(t, quiz.ResultFailed, s.Feedback().Result)

	assert.ErrorIs(t, s.Answer(ctx, "A"), ErrSessionOver)
}

func TestSessionAdaptiveClimbsDifficulty(t *testing.T) {
	srv := newQuizServer(t)
	s := NewSession(newTestClient(t, srv.URL), quiz.ProfileSolutionsArchitect, quiz.ModeAdaptive)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, s.Difficulty())

	require.NoError(t, s.Answer(ctx, s.Current().CorrectAnswer))
	assert.Equal(t, 2, s.Difficulty())
	assert.Equal(t, quiz.ResultCorrect, s.Feedback().Result)

	require.NoError(t, s.Answer(ctx, wrongLetter(s.Current().CorrectAnswer)))
	assert.Equal(t, 2, s.Difficulty())
	assert.Equal(t, quiz.ResultIncorrect, s.Feedback().Result)
	assert.Equal(t, 1, s.Score())
	assert.False(t, s.NeedsCompletion())
}

func TestSessionKeepsStateOnFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req quiz.TurnRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = w.Write([]byte(`{"nextQuestion":"Q1","options":["A) a","B) b","C) c","D) d"],"correctAnswer":"C","score":0,"questionNumber":1,"totalQuestions":10,"progress":10,"mode":"fixed"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, MaxAttempts: 1, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	s := NewSession(c, "", "")
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	fail.Store(true)

	require.Error(t, s.Answer(ctx, "C"))
	require.NotNil(t, s.Feedback())
	assert.Equal(t, quiz.ResultError, s.Feedback().Result)
	assert.Equal(t, quiz.ClientErrorFeedback, s.Feedback().Explanation)
	assert.Equal(t, "Q1", s.Current().Text)
	assert.Equal(t, 1, s.QuestionNumber())
	assert.Equal(t, 0, s.Score())
}

func TestSessionRejectsBlankAnswer(t *testing.T) {
	srv := newQuizServer(t)
	s := NewSession(newTestClient(t, srv.URL), "", quiz.ModeFixed)
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Answer(context.Background(), "   "))
}

func wrongLetter(correct string) string {
	if correct == "A" {
		return "B"
	}
	return "A"
}
