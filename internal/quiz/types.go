package quiz

import (
	"encoding/json"
	"errors"
)

// Mode selects the progression model.
type Mode string

const (
	ModeFixed    Mode = "fixed"
	ModeAdaptive Mode = "adaptive"
)

// Feedback results.
const (
	ResultCorrect   = "Correct"
	ResultIncorrect = "Incorrect"
	ResultError     = "Error"
	ResultPassed    = "Passed"
	ResultFailed    = "Failed"
)

const (
	correctExplanation  = "Well done! That's the correct answer."
	missingExplanation  = "No explanation available."
	ClientErrorFeedback = "Failed to load question. Please try again."
)

// TurnRequest is the client-held state sent with every turn. Pointer fields
// distinguish an absent value from a zero one.
type TurnRequest struct {
	LastQuestion      *string `json:"lastQuestion"`
	LastAnswer        *string `json:"lastAnswer"`
	LastCorrectAnswer *string `json:"lastCorrectAnswer"`
	Score             *int    `json:"score,omitempty"`
	QuestionNumber    *int    `json:"questionNumber,omitempty"`
	Difficulty        *int    `json:"difficulty,omitempty"`
	QuizType          *string `json:"quizType,omitempty"`
	Mode              *string `json:"mode,omitempty"`

	// WasCorrect is accepted for compatibility and never trusted.
	WasCorrect *bool `json:"wasCorrect,omitempty"`
}

// TurnState is a validated TurnRequest with defaults applied.
type TurnState struct {
	LastQuestion      string
	LastAnswer        string
	LastCorrectAnswer string
	Score             int
	QuestionNumber    int
	Difficulty        int
	QuizType          string
	Mode              Mode
}

// HasPrior reports whether the turn carries an answered question.
func (s TurnState) HasPrior() bool {
	return s.LastQuestion != ""
}

// MultipleChoice reports whether the prior answer can be graded locally.
func (s TurnState) MultipleChoice() bool {
	return s.LastCorrectAnswer != ""
}

// Feedback describes the outcome of the previous answer or of the session.
type Feedback struct {
	Result      string `json:"result"`
	Explanation string `json:"explanation"`
}

// NextQuestion is returned while a session is in progress.
type NextQuestion struct {
	NextQuestion   string    `json:"nextQuestion"`
	Options        []string  `json:"options"`
	CorrectAnswer  string    `json:"correctAnswer"`
	Score          int       `json:"score"`
	QuestionNumber *int      `json:"questionNumber,omitempty"`
	Difficulty     *int      `json:"difficulty,omitempty"`
	TotalQuestions *int      `json:"totalQuestions,omitempty"`
	Progress       int       `json:"progress"`
	QuizType       string    `json:"quizType"`
	Mode           Mode      `json:"mode"`
	Feedback       *Feedback `json:"feedback,omitempty"`
	FallbackUsed   bool      `json:"fallbackUsed"`
}

// Completion is returned once a fixed-length session is over.
type Completion struct {
	QuizComplete   bool     `json:"quizComplete"`
	FinalScore     int      `json:"finalScore"`
	TotalQuestions int      `json:"totalQuestions"`
	Percentage     int      `json:"percentage"`
	Passed         bool     `json:"passed"`
	Message        string   `json:"message"`
	QuizType       string   `json:"quizType"`
	Feedback       Feedback `json:"feedback"`
}

// TurnResult holds exactly one of Next or Completion.
type TurnResult struct {
	Next       *NextQuestion
	Completion *Completion
}

// MarshalJSON encodes whichever variant is set.
func (r TurnResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Completion != nil:
		return json.Marshal(r.Completion)
	case r.Next != nil:
		return json.Marshal(r.Next)
	default:
		return nil, errors.New("quiz: empty turn result")
	}
}
