package quiz

import (
	"strings"
	"unicode"
)

// Adjudicate grades a multiple-choice answer locally. Comparison ignores
// case and surrounding space.
func Adjudicate(answer, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct))
}

// ParseVerdict reads a model grading reply. It accepts the bare token, a
// leading token followed by punctuation or prose, or CORRECT anywhere in the
// reply as long as INCORRECT does not also appear. Anything else is
// treated as incorrect.
func ParseVerdict(reply string) bool {
	s := strings.ToUpper(strings.TrimSpace(reply))

	lead := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if len(lead) > 0 {
		switch lead[0] {
		case "CORRECT":
			return true
		case "INCORRECT":
			return false
		}
	}
	return strings.Contains(s, "CORRECT") && !strings.Contains(s, "INCORRECT")
}
