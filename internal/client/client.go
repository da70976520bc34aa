package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/gokatarajesh/certquiz/internal/quiz"
)

// Defaults match the browser client the service was built for.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultTurnPath    = "/v1/quiz/turn"
	profilesPath       = "/v1/quiz/profiles"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the service root, e.g. http://localhost:8080.
	BaseURL string
	// TurnPath is appended to BaseURL for turn requests. Use "/quiz" for
	// the legacy route or an API Gateway stage path.
	TurnPath    string
	Timeout     time.Duration // per attempt
	MaxAttempts int
	BaseDelay   time.Duration
	HTTPClient  *http.Client
}

// Client talks to the quiz API. Failed attempts are retried with
// exponential backoff when the failure is network-class or a 5xx.
type Client struct {
	baseURL  string
	turnURL  string
	timeout  time.Duration
	attempts int
	delay    time.Duration
	http     *http.Client
	logger   zerolog.Logger
}

// New creates a Client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	path := cfg.TurnPath
	if path == "" {
		path = DefaultTurnPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	c := &Client{
		baseURL:  base,
		turnURL:  base + path,
		timeout:  cfg.Timeout,
		attempts: cfg.MaxAttempts,
		delay:    cfg.BaseDelay,
		http:     cfg.HTTPClient,
		logger:   logger.With().Str("component", "quiz_client").Logger(),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.attempts <= 0 {
		c.attempts = DefaultMaxAttempts
	}
	if c.delay <= 0 {
		c.delay = DefaultBaseDelay
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c, nil
}

// StatusError is a non-2xx reply from the API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("quiz api: %d %s: %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("quiz api: %d: %s", e.StatusCode, msg)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// TurnResponse is the flattened union of the next-question and completion
// payloads.
type TurnResponse struct {
	NextQuestion   string         `json:"nextQuestion"`
	Options        []string       `json:"options"`
	CorrectAnswer  string         `json:"correctAnswer"`
	Score          int            `json:"score"`
	QuestionNumber *int           `json:"questionNumber"`
	Difficulty     *int           `json:"difficulty"`
	TotalQuestions int            `json:"totalQuestions"`
	Progress       int            `json:"progress"`
	QuizType       string         `json:"quizType"`
	Mode           string         `json:"mode"`
	Feedback       *quiz.Feedback `json:"feedback"`
	FallbackUsed   bool           `json:"fallbackUsed"`

	QuizComplete bool   `json:"quizComplete"`
	FinalScore   int    `json:"finalScore"`
	Percentage   int    `json:"percentage"`
	Passed       bool   `json:"passed"`
	Message      string `json:"message"`
}

// Profile is one entry of the quiz catalogue.
type Profile struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Services       []string `json:"services"`
	Difficulty     string   `json:"difficulty"`
	PassingScore   string   `json:"passingScore"`
	TotalQuestions int      `json:"totalQuestions"`
}

// NextTurn posts the client-held state and returns the next turn.
func (c *Client) NextTurn(ctx context.Context, req quiz.TurnRequest) (*TurnResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode turn: %w", err)
	}

	var raw []byte
	err = c.do(ctx, http.MethodPost, c.turnURL, body, func(b []byte) { raw = b })
	if err != nil {
		return nil, err
	}

	var out TurnResponse
	if err := json.Unmarshal(unwrapProxyBody(raw), &out); err != nil {
		return nil, fmt.Errorf("decode turn: %w", err)
	}
	return &out, nil
}

// Profiles fetches the quiz catalogue.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodGet, c.baseURL+profilesPath, nil, func(b []byte) { raw = b }); err != nil {
		return nil, err
	}

	var out struct {
		QuizTypes []Profile `json:"quizTypes"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return out.QuizTypes, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, onOK func([]byte)) error {
	backoff := retry.WithMaxRetries(uint64(c.attempts-1), retry.NewExponential(c.delay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		raw, err := c.once(ctx, method, url, body)
		if err == nil {
			onOK(raw)
			return nil
		}
		if ctx.Err() == nil && retryable(err) {
			c.logger.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", c.attempts).
				Msg("quiz api call failed, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) once(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Field   string `json:"field"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			se.Code, se.Message, se.Field = envelope.Error, envelope.Message, envelope.Field
		}
		return nil, se
	}
	return raw, nil
}

// retryable reports network-class failures and 5xx replies.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// unwrapProxyBody handles gateways that return the Lambda proxy envelope
// ({"statusCode":200,"body":"{...}"}) instead of the payload itself.
func unwrapProxyBody(raw []byte) []byte {
	var envelope struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Body) == 0 {
		return raw
	}
	var inner string
	if err := json.Unmarshal(envelope.Body, &inner); err == nil {
		return []byte(inner)
	}
	if envelope.Body[0] == '{' {
		return envelope.Body
	}
	return raw
}
