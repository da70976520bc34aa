package question

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse turns raw model text into a Question. Every failure wraps
// ErrMalformed.
func Parse(raw string) (Question, error) {
	candidate := Extract(raw)
	if candidate == "" {
		return Question{}, fmt.Errorf("%w: empty reply", ErrMalformed)
	}
	if err := validateDocument(candidate); err != nil {
		return Question{}, err
	}

	var q Question
	if err := json.Unmarshal([]byte(candidate), &q); err != nil {
		return Question{}, fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	q.CorrectAnswer = strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
	q.Options = labelOptions(q.Options)
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// labelOptions prefixes "A) ".."D) " when the model left every option
// unlabelled. Partially or wrongly labelled options are returned as is and
// fail validation.
func labelOptions(opts []string) []string {
	for _, opt := range opts {
		if hasLabel(opt) {
			return opts
		}
	}
	out := make([]string, len(opts))
	for i, opt := range opts {
		out[i] = opt
		if i < OptionCount {
			out[i] = Letters[i] + ") " + strings.TrimSpace(opt)
		}
	}
	return out
}

func hasLabel(opt string) bool {
	opt = strings.TrimSpace(opt)
	return len(opt) >= 2 && IsLetter(opt[:1]) && opt[1] == ')'
}

// ParseOrFallback returns the parsed question, or fallback when raw does
// not yield a valid one. The bool reports whether fallback was used.
func ParseOrFallback(raw string, fallback Question) (Question, bool) {
	q, err := Parse(raw)
	if err != nil {
		return fallback, true
	}
	return q, false
}
