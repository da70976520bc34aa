package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjudicate(t *testing.T) {
	assert.True(t, Adjudicate("b", "B"))
	assert.True(t, Adjudicate("B", "b"))
	assert.True(t, Adjudicate(" C ", "C"))
	assert.False(t, Adjudicate("a", "B"))
	assert.False(t, Adjudicate("B", "A"))
}

func TestParseVerdict(t *testing.T) {
	cases := map[string]bool{
		"CORRECT":                                   true,
		"correct":                                   true,
		"  CORRECT\n":                               true,
		"CORRECT.":                                  true,
		"Correct! Lex builds chatbots.":             true,
		"**CORRECT**":                               true,
		"\"correct\"":                               true,
		"`INCORRECT`":                               false,
		"'Incorrect', Polly speaks":                 false,
		"The answer is correct":                     true,
		"INCORRECT":                                 false,
		"Incorrect.":                                false,
		"INCORRECT - Polly is text to speech":       false,
		"The answer is incorrect":                   false,
		"Not quite CORRECT, it is INCORRECT":        false,
		"":                                          false,
		"true":                                      false,
		"I cannot determine whether that is right.": false,
	}
	for reply, want := range cases {
		assert.Equal(t, want, ParseVerdict(reply), "%q", reply)
	}
}
