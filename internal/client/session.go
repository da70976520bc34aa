package client

import (
	"context"
	"errors"
	"strings"

	"github.com/gokatarajesh/certquiz/internal/quiz"
)

// ErrSessionOver is returned when answering after completion.
var ErrSessionOver = errors.New("quiz session is over")

// Question is the question currently shown to the player.
type Question struct {
	Text          string
	Options       []string
	CorrectAnswer string
}

// Session holds the quiz state on the client side. The server is stateless,
// so everything needed for the next turn lives here and is sent back whole.
// A failed call leaves the state untouched so the same turn can be retried.
type Session struct {
	client   *Client
	quizType string
	mode     quiz.Mode

	current        *Question
	score          int
	questionNumber int
	difficulty     int
	totalQuestions int
	progress       int

	feedback   *quiz.Feedback
	completion *TurnResponse
}

// NewSession creates a session for quizType in the given mode. An empty
// mode means fixed.
func NewSession(c *Client, quizType string, mode quiz.Mode) *Session {
	if mode == "" {
		mode = quiz.ModeFixed
	}
	return &Session{
		client:         c,
		quizType:       quizType,
		mode:           mode,
		questionNumber: 1,
		difficulty:     1,
	}
}

// Start fetches the first question.
func (s *Session) Start(ctx context.Context) error {
	s.score, s.questionNumber, s.difficulty = 0, 1, 1
	s.current, s.completion, s.feedback = nil, nil, nil
	return s.turn(ctx, s.baseRequest())
}

// Answer submits an answer to the current question. For multiple choice
// the answer is a letter; the server grades free text otherwise.
func (s *Session) Answer(ctx context.Context, answer string) error {
	if s.completion != nil {
		return ErrSessionOver
	}
	if s.current == nil {
		return errors.New("no question to answer")
	}

	req := s.baseRequest()
	q := s.current.Text
	a := strings.TrimSpace(answer)
	if a == "" {
		return errors.New("answer is required")
	}
	req.LastQuestion = &q
	req.LastAnswer = &a
	if s.current.CorrectAnswer != "" {
		ca := s.current.CorrectAnswer
		req.LastCorrectAnswer = &ca
	}
	return s.turn(ctx, req)
}

// NeedsCompletion reports whether a fixed-length session has answered its
// last question and should ask for the summary.
func (s *Session) NeedsCompletion() bool {
	return s.completion == nil &&
		s.mode == quiz.ModeFixed &&
		s.totalQuestions > 0 &&
		s.questionNumber > s.totalQuestions
}

// Finish requests the session summary.
func (s *Session) Finish(ctx context.Context) error {
	if s.completion != nil {
		return nil
	}
	return s.turn(ctx, s.baseRequest())
}

// Current returns the question on screen, or nil.
func (s *Session) Current() *Question { return s.current }

// Feedback returns the feedback from the latest turn, or nil.
func (s *Session) Feedback() *quiz.Feedback { return s.feedback }

// Completion returns the summary once the session is over.
func (s *Session) Completion() *TurnResponse { return s.completion }

// Done reports whether the session has been summarised.
func (s *Session) Done() bool { return s.completion != nil }

func (s *Session) Score() int          { return s.score }
func (s *Session) QuestionNumber() int { return s.questionNumber }
func (s *Session) Difficulty() int     { return s.difficulty }
func (s *Session) TotalQuestions() int { return s.totalQuestions }
func (s *Session) Progress() int       { return s.progress }
func (s *Session) Mode() quiz.Mode     { return s.mode }

func (s *Session) baseRequest() quiz.TurnRequest {
	score, qn, diff := s.score, s.questionNumber, s.difficulty
	quizType, mode := s.quizType, string(s.mode)
	req := quiz.TurnRequest{
		Score:    &score,
		QuizType: &quizType,
		Mode:     &mode,
	}
	if s.mode == quiz.ModeAdaptive {
		req.Difficulty = &diff
	} else {
		req.QuestionNumber = &qn
	}
	return req
}

func (s *Session) turn(ctx context.Context, req quiz.TurnRequest) error {
	resp, err := s.client.NextTurn(ctx, req)
	if err != nil {
		s.feedback = &quiz.Feedback{Result: quiz.ResultError, Explanation: quiz.ClientErrorFeedback}
		return err
	}
	s.apply(resp)
	return nil
}

func (s *Session) apply(resp *TurnResponse) {
	if resp.QuizType != "" {
		s.quizType = resp.QuizType
	}
	if resp.QuizComplete {
		s.completion = resp
		s.current = nil
		s.score = resp.FinalScore
		s.totalQuestions = resp.TotalQuestions
		s.progress = 100
		fb := resp.Feedback
		if fb == nil {
			fb = &quiz.Feedback{Result: quiz.ResultFailed, Explanation: resp.Message}
			if resp.Passed {
				fb.Result = quiz.ResultPassed
			}
		}
		s.feedback = fb
		return
	}

	s.current = &Question{
		Text:          resp.NextQuestion,
		Options:       resp.Options,
		CorrectAnswer: resp.CorrectAnswer,
	}
	s.score = resp.Score
	s.progress = resp.Progress
	s.feedback = resp.Feedback
	if resp.Mode != "" {
		s.mode = quiz.Mode(resp.Mode)
	}
	if resp.QuestionNumber != nil {
		s.questionNumber = *resp.QuestionNumber
	}
	if resp.Difficulty != nil {
		s.difficulty = *resp.Difficulty
	}
	if resp.TotalQuestions > 0 {
		s.totalQuestions = resp.TotalQuestions
	}
}
