package quiz

import (
	"fmt"
	"math"
	"strings"

	"github.com/gokatarajesh/certquiz/internal/question"
)

// Rules holds the session protocol constants.
type Rules struct {
	Mode          Mode // default when a request names none
	SessionLength int  // fixed mode question count
	PassPercent   int  // inclusive pass threshold
	MaxDifficulty int  // adaptive mode ceiling
}

// DefaultRules returns the ten-question, 70% pass protocol.
func DefaultRules() Rules {
	return Rules{
		Mode:          ModeFixed,
		SessionLength: 10,
		PassPercent:   70,
		MaxDifficulty: 10,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Mode == "" {
		r.Mode = d.Mode
	}
	if r.SessionLength <= 0 {
		r.SessionLength = d.SessionLength
	}
	if r.PassPercent <= 0 {
		r.PassPercent = d.PassPercent
	}
	if r.MaxDifficulty <= 0 {
		r.MaxDifficulty = d.MaxDifficulty
	}
	return r
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFixed:
		return ModeFixed, nil
	case ModeAdaptive:
		return ModeAdaptive, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Normalize validates client-held state and fills defaults. Rejections are
// returned as *StateError.
func (r Rules) Normalize(req TurnRequest) (TurnState, error) {
	r = r.withDefaults()

	st := TurnState{
		LastQuestion:      trimmed(req.LastQuestion),
		LastAnswer:        trimmed(req.LastAnswer),
		LastCorrectAnswer: strings.ToUpper(trimmed(req.LastCorrectAnswer)),
		QuizType:          trimmed(req.QuizType),
		Score:             0,
		QuestionNumber:    1,
		Difficulty:        1,
		Mode:              r.Mode,
	}

	if req.Mode != nil && strings.TrimSpace(*req.Mode) != "" {
		mode, err := ParseMode(*req.Mode)
		if err != nil {
			return TurnState{}, &StateError{Field: "mode", Reason: "must be fixed or adaptive"}
		}
		st.Mode = mode
	}

	if req.Score != nil {
		if *req.Score < 0 {
			return TurnState{}, &StateError{Field: "score", Reason: "must not be negative"}
		}
		st.Score = *req.Score
	}
	if req.QuestionNumber != nil {
		if *req.QuestionNumber < 1 {
			return TurnState{}, &StateError{Field: "questionNumber", Reason: "must be at least 1"}
		}
		st.QuestionNumber = *req.QuestionNumber
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > r.MaxDifficulty {
			return TurnState{}, &StateError{Field: "difficulty", Reason: fmt.Sprintf("must be within 1..%d", r.MaxDifficulty)}
		}
		st.Difficulty = *req.Difficulty
	}

	if st.Mode == ModeFixed && st.Score > st.QuestionNumber-1 {
		return TurnState{}, &StateError{Field: "score", Reason: "exceeds the number of answered questions"}
	}

	switch {
	case st.LastAnswer != "" && st.LastQuestion == "":
		return TurnState{}, &StateError{Field: "lastAnswer", Reason: "requires lastQuestion"}
	case st.LastQuestion != "" && st.LastAnswer == "":
		return TurnState{}, &StateError{Field: "lastAnswer", Reason: "is required when lastQuestion is set"}
	case st.LastCorrectAnswer != "" && st.LastQuestion == "":
		return TurnState{}, &StateError{Field: "lastCorrectAnswer", Reason: "requires lastQuestion"}
	}

	if st.LastCorrectAnswer != "" {
		if !question.IsLetter(st.LastCorrectAnswer) {
			return TurnState{}, &StateError{Field: "lastCorrectAnswer", Reason: "must be one of A, B, C, D"}
		}
		if !question.IsLetter(st.LastAnswer) {
			return TurnState{}, &StateError{Field: "lastAnswer", Reason: "must be one of A, B, C, D"}
		}
	}

	return st, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Advance applies one answered turn to the progression counters.
func (r Rules) Advance(st TurnState, wasCorrect bool) TurnState {
	r = r.withDefaults()

	if wasCorrect {
		st.Score++
	}
	switch st.Mode {
	case ModeAdaptive:
		if wasCorrect {
			st.Difficulty = min(r.MaxDifficulty, st.Difficulty+1)
		} else {
			st.Difficulty = max(1, st.Difficulty)
		}
	default:
		st.QuestionNumber++
	}
	return st
}

// Completed reports whether a fixed-length session has run past its last
// question. Adaptive sessions never complete.
func (r Rules) Completed(st TurnState) bool {
	r = r.withDefaults()
	return st.Mode == ModeFixed && st.QuestionNumber > r.SessionLength
}

// Progress is the 0..100 completion gauge shown to the user.
func (r Rules) Progress(st TurnState) int {
	r = r.withDefaults()
	var pct int
	if st.Mode == ModeAdaptive {
		pct = percent(st.Difficulty, r.MaxDifficulty)
	} else {
		pct = percent(st.QuestionNumber, r.SessionLength)
	}
	return min(100, pct)
}

// Summarize builds the end-of-session result.
func (r Rules) Summarize(st TurnState, p Profile) Completion {
	r = r.withDefaults()

	pct := percent(st.Score, r.SessionLength)
	passed := pct >= r.PassPercent

	msg := fmt.Sprintf("Keep studying! You need %d%% to pass the %s exam.", r.PassPercent, p.ExamName)
	result := ResultFailed
	if passed {
		msg = fmt.Sprintf("Congratulations! You passed the %s practice exam!", p.ExamName)
		result = ResultPassed
	}

	return Completion{
		QuizComplete:   true,
		FinalScore:     st.Score,
		TotalQuestions: r.SessionLength,
		Percentage:     pct,
		Passed:         passed,
		Message:        msg,
		QuizType:       p.ID,
		Feedback: Feedback{
			Result:      result,
			Explanation: fmt.Sprintf("You scored %d/%d (%d%%). %s", st.Score, r.SessionLength, pct, msg),
		},
	}
}

func percent(n, of int) int {
	return int(math.Round(float64(n) / float64(of) * 100))
}
