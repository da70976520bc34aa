package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/certquiz/internal/llm"
	"github.com/gokatarajesh/certquiz/internal/logging"
	"github.com/gokatarajesh/certquiz/internal/question"
)

// Turn outcomes reported to the Recorder.
const (
	OutcomeNextQuestion     = "next_question"
	OutcomeCompletion       = "completion"
	OutcomeInvalidState     = "invalid_state"
	OutcomeModelUnavailable = "model_unavailable"
)

// Recorder receives engine-level observations. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveTurn(mode, outcome string)
	ObserveFallback(quizType string)
}

// Sampling controls the model calls made per turn.
type Sampling struct {
	QuestionTokens    int
	ExplanationTokens int
	GradingTokens     int
	Temperature       float64
	TopP              float64
	TopK              int
}

// DefaultSampling mirrors the Bedrock parameters the quiz was tuned with.
func DefaultSampling() Sampling {
	return Sampling{
		QuestionTokens:    400,
		ExplanationTokens: 200,
		GradingTokens:     10,
		Temperature:       1,
		TopP:              0.999,
		TopK:              250,
	}
}

// Options configures an Engine.
type Options struct {
	Rules           Rules
	DefaultQuizType string
	Sampling        Sampling
}

// Engine runs one quiz turn per call. It keeps no state between calls.
type Engine struct {
	provider llm.Provider
	rules    Rules
	quizType string
	sampling Sampling
	recorder Recorder
	logger   zerolog.Logger
}

// NewEngine creates an engine backed by provider. recorder may be nil.
func NewEngine(provider llm.Provider, opts Options, logger zerolog.Logger, recorder Recorder) *Engine {
	sampling := opts.Sampling
	if sampling.QuestionTokens == 0 {
		sampling = DefaultSampling()
	}
	if sampling.GradingTokens == 0 {
		sampling.GradingTokens = DefaultSampling().GradingTokens
	}
	quizType := opts.DefaultQuizType
	if quizType == "" {
		quizType = DefaultProfileID
	}

	return &Engine{
		provider: provider,
		rules:    opts.Rules.withDefaults(),
		quizType: quizType,
		sampling: sampling,
		recorder: recorder,
		logger:   logger.With().Str("component", "quiz_engine").Logger(),
	}
}

// Rules returns the protocol constants the engine runs with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// ProcessTurn validates the client state, grades the previous answer if
// there is one, advances the counters and fetches the next question. A
// failed model call aborts the turn with an error matching
// ErrModelUnavailable; nothing of the partial turn is returned.
func (e *Engine) ProcessTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	logger := e.loggerFrom(ctx)

	st, err := e.rules.Normalize(req)
	if err != nil {
		e.observeTurn(string(e.rules.Mode), OutcomeInvalidState)
		logger.Debug().Err(err).Msg("rejected turn state")
		return TurnResult{}, err
	}

	quizType := st.QuizType
	if quizType == "" {
		quizType = e.quizType
	}
	profile := LookupProfile(quizType)
	if profile.ID != quizType {
		logger.Debug().Str("quiz_type", quizType).Str("profile", profile.ID).Msg("unknown quiz type, using default profile")
	}

	if e.rules.Completed(st) {
		c := e.rules.Summarize(st, profile)
		e.observeTurn(string(st.Mode), OutcomeCompletion)
		logger.Info().
			Str("quiz_type", profile.ID).
			Int("score", c.FinalScore).
			Int("percentage", c.Percentage).
			Bool("passed", c.Passed).
			Msg("quiz completed")
		return TurnResult{Completion: &c}, nil
	}

	next := st
	var (
		feedback   *Feedback
		wasCorrect bool
	)
	if st.HasPrior() {
		wasCorrect, err = e.grade(ctx, profile, st)
		if err != nil {
			e.observeTurn(string(st.Mode), OutcomeModelUnavailable)
			return TurnResult{}, err
		}
		if wasCorrect {
			feedback = &Feedback{Result: ResultCorrect, Explanation: correctExplanation}
		} else {
			feedback = &Feedback{Result: ResultIncorrect, Explanation: e.explain(ctx, profile, st)}
		}
		next = e.rules.Advance(st, wasCorrect)

		logger.Debug().
			Bool("correct", wasCorrect).
			Bool("multiple_choice", st.MultipleChoice()).
			Int("score", next.Score).
			Int("question_number", next.QuestionNumber).
			Int("difficulty", next.Difficulty).
			Msg("answer graded")
	}

	prompt := BuildQuestionPrompt(profile, next, e.rules, st.HasPrior(), wasCorrect)
	resp, err := e.provider.Generate(llm.WithPurpose(ctx, llm.PurposeQuestion), e.request(prompt, e.sampling.QuestionTokens))
	if err != nil {
		e.observeTurn(string(st.Mode), OutcomeModelUnavailable)
		return TurnResult{}, fmt.Errorf("%w: generate question: %w", ErrModelUnavailable, err)
	}

	q, fallback := question.ParseOrFallback(resp.Text, profile.Fallback)
	if fallback {
		if e.recorder != nil {
			e.recorder.ObserveFallback(profile.ID)
		}
		logger.Warn().
			Str("quiz_type", profile.ID).
			Str("stop_reason", resp.StopReason).
			Int("reply_len", len(resp.Text)).
			Msg("model returned an unusable question, serving fallback")
	}

	out := &NextQuestion{
		NextQuestion:  q.Question,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Score:         next.Score,
		Progress:      e.rules.Progress(next),
		QuizType:      profile.ID,
		Mode:          next.Mode,
		Feedback:      feedback,
		FallbackUsed:  fallback,
	}
	if next.Mode == ModeAdaptive {
		out.Difficulty = intPtr(next.Difficulty)
	} else {
		out.QuestionNumber = intPtr(next.QuestionNumber)
		out.TotalQuestions = intPtr(e.rules.SessionLength)
	}

	e.observeTurn(string(next.Mode), OutcomeNextQuestion)
	return TurnResult{Next: out}, nil
}

// grade decides correctness: locally for multiple choice, through the
// model for free text.
func (e *Engine) grade(ctx context.Context, p Profile, st TurnState) (bool, error) {
	if st.MultipleChoice() {
		return Adjudicate(st.LastAnswer, st.LastCorrectAnswer), nil
	}

	prompt := BuildGradingPrompt(p, st.LastQuestion, st.LastAnswer)
	resp, err := e.provider.Generate(llm.WithPurpose(ctx, llm.PurposeGrading), e.request(prompt, e.sampling.GradingTokens))
	if err != nil {
		return false, fmt.Errorf("%w: grade answer: %w", ErrModelUnavailable, err)
	}
	return ParseVerdict(resp.Text), nil
}

// explain never fails: a failed or blank reply becomes the placeholder.
func (e *Engine) explain(ctx context.Context, p Profile, st TurnState) string {
	prompt := BuildExplanationPrompt(p, st.LastQuestion, st.LastAnswer, st.LastCorrectAnswer)
	resp, err := e.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExplanation), e.request(prompt, e.sampling.ExplanationTokens))
	if err != nil {
		logger := e.loggerFrom(ctx)
		logger.Warn().Err(err).Msg("explanation unavailable")
		return missingExplanation
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return missingExplanation
	}
	return text
}

func (e *Engine) request(prompt string, maxTokens int) llm.Request {
	return llm.Request{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: e.sampling.Temperature,
		TopP:        e.sampling.TopP,
		TopK:        e.sampling.TopK,
	}
}

func (e *Engine) observeTurn(mode, outcome string) {
	if e.recorder != nil {
		e.recorder.ObserveTurn(mode, outcome)
	}
}

func (e *Engine) loggerFrom(ctx context.Context) zerolog.Logger {
	if l := logging.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		return l.With().Str("component", "quiz_engine").Logger()
	}
	return e.logger
}

func intPtr(v int) *int { return &v }
