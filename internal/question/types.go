package question

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the fixed number of choices per question.
const OptionCount = 4

// Letters are the option labels in display order.
var Letters = [OptionCount]string{"A", "B", "C", "D"}

// ErrMalformed marks model output that could not be turned into a Question.
var ErrMalformed = errors.New("malformed question")

// Question is the generated multiple-choice payload delivered to clients.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// IsLetter reports whether s is one of the option labels, ignoring case
// and surrounding space.
func IsLetter(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, l := range Letters {
		if s == l {
			return true
		}
	}
	return false
}

// Validate checks the strict shape used for canned questions: a non-empty
// prompt, four options labelled "A) " through "D) " in order, and a
// correct answer naming one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: question is empty", ErrMalformed)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: want %d options, got %d", ErrMalformed, OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		prefix := Letters[i] + ") "
		if !strings.HasPrefix(opt, prefix) || strings.TrimSpace(strings.TrimPrefix(opt, prefix)) == "" {
			return fmt.Errorf("%w: option %d must start with %q", ErrMalformed, i+1, prefix)
		}
	}
	if !IsLetter(q.CorrectAnswer) || q.CorrectAnswer != strings.ToUpper(q.CorrectAnswer) {
		return fmt.Errorf("%w: correctAnswer %q is not one of A-D", ErrMalformed, q.CorrectAnswer)
	}
	return nil
}
