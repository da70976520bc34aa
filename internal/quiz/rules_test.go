package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeDefaults(t *testing.T) {
	st, err := DefaultRules().Normalize(TurnRequest{})
	require.NoError(t, err)

	assert.Equal(t, TurnState{Score: 0, QuestionNumber: 1, Difficulty: 1, Mode: ModeFixed}, st)
	assert.False(t, st.HasPrior())
}

func TestNormalizeTrimsAndUppercases(t *testing.T) {
	st, err := DefaultRules().Normalize(TurnRequest{
		LastQuestion:      strPtr("  Which service? "),
		LastAnswer:        strPtr(" b "),
		LastCorrectAnswer: strPtr("b"),
		Score:             intPtr(0),
		QuestionNumber:    intPtr(1),
		QuizType:          strPtr(" solutions-architect "),
		Mode:              strPtr("Adaptive"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Which service?", st.LastQuestion)
	assert.Equal(t, "b", st.LastAnswer)
	assert.Equal(t, "B", st.LastCorrectAnswer)
	assert.Equal(t, "solutions-architect", st.QuizType)
	assert.Equal(t, ModeAdaptive, st.Mode)
	assert.True(t, st.MultipleChoice())
}

func TestNormalizeRejects(t *testing.T) {
	q := strPtr("Which service?")
	cases := map[string]struct {
		req   TurnRequest
		field string
	}{
		"negative score":        {TurnRequest{Score: intPtr(-1)}, "score"},
		"question number zero":  {TurnRequest{QuestionNumber: intPtr(0)}, "questionNumber"},
		"difficulty zero":       {TurnRequest{Difficulty: intPtr(0)}, "difficulty"},
		"difficulty eleven":     {TurnRequest{Difficulty: intPtr(11)}, "difficulty"},
		"unknown mode":          {TurnRequest{Mode: strPtr("marathon")}, "mode"},
		"score ahead of turns":  {TurnRequest{Score: intPtr(3), QuestionNumber: intPtr(3)}, "score"},
		"answer without q":      {TurnRequest{LastAnswer: strPtr("A")}, "lastAnswer"},
		"q without answer":      {TurnRequest{LastQuestion: q}, "lastAnswer"},
		"blank answer":          {TurnRequest{LastQuestion: q, LastAnswer: strPtr("  ")}, "lastAnswer"},
		"correct without q":     {TurnRequest{LastCorrectAnswer: strPtr("A")}, "lastCorrectAnswer"},
		"correct out of set":    {TurnRequest{LastQuestion: q, LastAnswer: strPtr("A"), LastCorrectAnswer: strPtr("E")}, "lastCorrectAnswer"},
		"mc answer not letter":  {TurnRequest{LastQuestion: q, LastAnswer: strPtr("Amazon Lex"), LastCorrectAnswer: strPtr("B")}, "lastAnswer"},
		"mc answer two letters": {TurnRequest{LastQuestion: q, LastAnswer: strPtr("AB"), LastCorrectAnswer: strPtr("B")}, "lastAnswer"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DefaultRules().Normalize(tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidState))

			var se *StateError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.field, se.Field)
		})
	}
}

func TestNormalizeAllowsAdaptiveScoreWithoutQuestionNumber(t *testing.T) {
	st, err := DefaultRules().Normalize(TurnRequest{Mode: strPtr("adaptive"), Score: intPtr(7), Difficulty: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 7, st.Score)
	assert.Equal(t, 8, st.Difficulty)
}

func TestAdvanceFixed(t *testing.T) {
	r := DefaultRules()
	for qn := 1; qn <= 10; qn++ {
		for _, correct := range []bool{true, false} {
			st := TurnState{Score: qn - 1, QuestionNumber: qn, Difficulty: 1, Mode: ModeFixed}
			got := r.Advance(st, correct)

			assert.Equal(t, qn+1, got.QuestionNumber)
			if correct {
				assert.Equal(t, st.Score+1, got.Score)
			} else {
				assert.Equal(t, st.Score, got.Score)
			}
			assert.Equal(t, 1, got.Difficulty)
		}
	}
}

func TestAdvanceAdaptive(t *testing.T) {
	r := DefaultRules()
	for d := 1; d <= 10; d++ {
		st := TurnState{Difficulty: d, QuestionNumber: 1, Mode: ModeAdaptive}

		up := r.Advance(st, true)
		assert.Equal(t, min(10, d+1), up.Difficulty)
		assert.Equal(t, 1, up.Score)
		assert.Equal(t, 1, up.QuestionNumber)

		held := r.Advance(st, false)
		assert.Equal(t, max(1, d), held.Difficulty)
		assert.Equal(t, 0, held.Score)
	}
}

func TestCompleted(t *testing.T) {
	r := DefaultRules()
	assert.False(t, r.Completed(TurnState{QuestionNumber: 10, Mode: ModeFixed}))
	assert.True(t, r.Completed(TurnState{QuestionNumber: 11, Mode: ModeFixed}))
	assert.False(t, r.Completed(TurnState{QuestionNumber: 50, Difficulty: 10, Mode: ModeAdaptive}))
}

func TestSummarize(t *testing.T) {
	r := DefaultRules()
	p := LookupProfile(ProfileAIPractitioner)

	pass := r.Summarize(TurnState{Score: 7, QuestionNumber: 11, Mode: ModeFixed}, p)
	assert.True(t, pass.QuizComplete)
	assert.Equal(t, 70, pass.Percentage)
	assert.Equal(t, 10, pass.TotalQuestions)
	assert.True(t, pass.Passed)
	assert.Equal(t, "Congratulations! You passed the AWS AI Practitioner practice exam!", pass.Message)
	assert.Equal(t, ResultPassed, pass.Feedback.Result)
	assert.Equal(t, "You scored 7/10 (70%). Congratulations! You passed the AWS AI Practitioner practice exam!", pass.Feedback.Explanation)

	fail := r.Summarize(TurnState{Score: 6, QuestionNumber: 11, Mode: ModeFixed}, p)
	assert.Equal(t, 60, fail.Percentage)
	assert.False(t, fail.Passed)
	assert.Equal(t, "Keep studying! You need 70% to pass the AWS AI Practitioner exam.", fail.Message)
	assert.Equal(t, ResultFailed, fail.Feedback.Result)
}

func TestSummarizeRoundsLikeTheClient(t *testing.T) {
	r := Rules{SessionLength: 8, PassPercent: 70}
	c := r.Summarize(TurnState{Score: 5, Mode: ModeFixed}, LookupProfile(""))
	// 5/8 = 62.5%
	assert.Equal(t, 63, c.Percentage)
}

func TestProgress(t *testing.T) {
	r := DefaultRules()
	assert.Equal(t, 10, r.Progress(TurnState{QuestionNumber: 1, Mode: ModeFixed}))
	assert.Equal(t, 100, r.Progress(TurnState{QuestionNumber: 10, Mode: ModeFixed}))
	assert.Equal(t, 100, r.Progress(TurnState{QuestionNumber: 11, Mode: ModeFixed}))
	assert.Equal(t, 30, r.Progress(TurnState{Difficulty: 3, Mode: ModeAdaptive}))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" FIXED ")
	require.NoError(t, err)
	assert.Equal(t, ModeFixed, m)

	_, err = ParseMode("sprint")
	assert.Error(t, err)
}
