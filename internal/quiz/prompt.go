package quiz

import (
	"fmt"
	"strings"
)

const questionFormat = `Format your response as a JSON object with this exact structure:
{
  "question": "Your question here?",
  "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
  "correctAnswer": "A"
}`

// BuildQuestionPrompt renders the next-question prompt. st must already
// carry the advanced counters; hadPrior and wasCorrect describe the answer
// that was just graded.
func BuildQuestionPrompt(p Profile, st TurnState, rules Rules, hadPrior, wasCorrect bool) string {
	rules = rules.withDefaults()

	var b strings.Builder
	switch {
	case !hadPrior:
		fmt.Fprintf(&b, "Generate a multiple choice quiz question for the %s exam. %s\n\n", p.ExamName, position(st, rules, true))
	case wasCorrect:
		fmt.Fprintf(&b, "The user answered the previous %s exam question correctly. Generate the next question (%s).\n\n", p.ExamName, position(st, rules, false))
	default:
		fmt.Fprintf(&b, "The user answered the previous %s exam question incorrectly. Generate the next question (%s).\n\n", p.ExamName, position(st, rules, false))
	}
	if hadPrior {
		fmt.Fprintf(&b, "Previous question: \"%s\"\n\n", st.LastQuestion)
	}

	b.WriteString(questionFormat)
	b.WriteString("\n\nRequirements:\n")
	fmt.Fprintf(&b, "- Focus on %s: %s\n", p.Domain, strings.Join(p.Services, ", "))
	for _, f := range p.Focus {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("- Create 4 options (A, B, C, D) with only 1 correct answer\n")
	b.WriteString("- Make incorrect options plausible but clearly wrong\n")
	b.WriteString("- Use realistic AWS scenarios and use cases\n")

	if hadPrior {
		if wasCorrect {
			b.WriteString("- Ensure this question covers a different service or concept than the previous question\n")
			if st.Mode == ModeAdaptive {
				b.WriteString("- Make this question harder than the previous one\n")
			}
		} else {
			b.WriteString("- Keep the same difficulty as the previous question but test a different concept\n")
		}
	}
	b.WriteString("- Return ONLY the JSON object, no other text")
	return b.String()
}

func position(st TurnState, rules Rules, opening bool) string {
	if st.Mode == ModeAdaptive {
		if opening {
			return fmt.Sprintf("Target difficulty: %d on a scale of 1 to %d.", st.Difficulty, rules.MaxDifficulty)
		}
		return fmt.Sprintf("difficulty %d of %d", st.Difficulty, rules.MaxDifficulty)
	}
	if opening {
		return fmt.Sprintf("This is question %d of %d.", st.QuestionNumber, rules.SessionLength)
	}
	return fmt.Sprintf("%d of %d", st.QuestionNumber, rules.SessionLength)
}

// BuildExplanationPrompt asks for a short explanation of a wrong answer.
// An empty correct answer means the question was free text and the model
// has to name the right answer itself.
func BuildExplanationPrompt(p Profile, questionText, answer, correct string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A student answered an %s exam question incorrectly.\n\n", p.ExamName)
	fmt.Fprintf(&b, "Question: \"%s\"\n", questionText)
	fmt.Fprintf(&b, "Student's Answer: \"%s\"\n", answer)
	if correct != "" {
		fmt.Fprintf(&b, "Correct Answer: \"%s\"\n", correct)
	}

	fmt.Fprintf(&b, "\nProvide a concise explanation focusing on %s in this format:\n", p.Domain)
	if correct != "" {
		fmt.Fprintf(&b, "\"The correct answer is %s. Your choice %s is incorrect because [BRIEF REASON]. [ONE EDUCATIONAL FACT about the AWS service or concept].\"\n", correct, answer)
	} else {
		b.WriteString("\"The correct answer is [CORRECT ANSWER]. Your answer is incorrect because [BRIEF REASON]. [ONE EDUCATIONAL FACT about the AWS service or concept].\"\n")
	}
	b.WriteString("\nKeep it educational and AWS-focused, under 60 words:")
	return b.String()
}

// BuildGradingPrompt asks the model to grade a free-text answer with a
// single CORRECT or INCORRECT token.
func BuildGradingPrompt(p Profile, questionText, answer string) string {
	return fmt.Sprintf(`You are grading an answer to an %s exam question.

Question: "%s"
Student's Answer: "%s"

Reply with exactly one word: CORRECT if the answer is right, INCORRECT otherwise. Do not add any other text.`,
		p.ExamName, questionText, answer)
}
