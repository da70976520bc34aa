package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/certquiz/internal/client"
	"github.com/gokatarajesh/certquiz/internal/config"
	"github.com/gokatarajesh/certquiz/internal/llm"
	"github.com/gokatarajesh/certquiz/internal/quiz"
	"github.com/gokatarajesh/certquiz/internal/server"
)

func newDemoSession(t *testing.T, mode quiz.Mode) *client.Session {
	t.Helper()
	logger := zerolog.New(io.Discard)
	engine := quiz.NewEngine(llm.NewDemoProvider(), quiz.Options{}, logger, nil)
	srv := httptest.NewServer(server.NewRouter(server.RouterOptions{
		CORS:   config.CORS{AllowedOrigins: []string{"*"}},
		Turns:  server.NewTurnHandler(engine, logger),
		Rules:  engine.Rules(),
		Logger: logger,
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{BaseURL: srv.URL}, logger)
	require.NoError(t, err)
	return client.NewSession(c, quiz.ProfileAIPractitioner, mode)
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestPlayRunsToCompletion(t *testing.T) {
	s := newDemoSession(t, quiz.ModeFixed)
	in := strings.NewReader(strings.Repeat("A\n", 10))
	var out bytes.Buffer

	require.NoError(t, play(testCmd(), s, in, &out))

	assert.True(t, s.Done())
	assert.Contains(t, out.String(), "[question 1/10, score 0]")
	assert.Contains(t, out.String(), "Final score:")
}

func TestPlayQuitsAndRejectsBadInput(t *testing.T) {
	s := newDemoSession(t, quiz.ModeAdaptive)
	in := strings.NewReader("maybe\nq\n")
	var out bytes.Buffer

	require.NoError(t, play(testCmd(), s, in, &out))

	assert.False(t, s.Done())
	assert.Contains(t, out.String(), "[difficulty 1, score 0]")
	assert.Contains(t, out.String(), "Please answer with A, B, C or D.")
}

func TestResolveEndpoint(t *testing.T) {
	t.Setenv("QUIZ_ENDPOINT", "https://quiz.example.com")

	cmd := &cobra.Command{}
	cmd.Flags().String("endpoint", "", "")
	assert.Equal(t, "https://quiz.example.com", resolveEndpoint(cmd))

	require.NoError(t, cmd.Flags().Set("endpoint", "http://127.0.0.1:9000"))
	assert.Equal(t, "http://127.0.0.1:9000", resolveEndpoint(cmd))
}
