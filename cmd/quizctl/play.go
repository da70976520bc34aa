package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/certquiz/internal/client"
	"github.com/gokatarajesh/certquiz/internal/question"
	"github.com/gokatarajesh/certquiz/internal/quiz"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a quiz in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		quizType, _ := cmd.Flags().GetString("quiz-type")
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := quiz.ParseMode(modeFlag)
		if err != nil {
			return err
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		return play(cmd, client.NewSession(c, quizType, mode), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	playCmd.Flags().String("quiz-type", quiz.DefaultProfileID, "Quiz type to play, as listed by the profiles command")
	playCmd.Flags().String("mode", string(quiz.ModeFixed), "Progression mode: fixed or adaptive")
}

// play runs the answer loop until the session completes, input ends, or
// the player types q.
func play(cmd *cobra.Command, s *client.Session, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start quiz: %w", err)
	}

	scanner := bufio.NewScanner(in)
	for !s.Done() {
		if s.NeedsCompletion() {
			if err := s.Finish(ctx); err != nil {
				fmt.Fprintln(out, s.Feedback().Explanation)
				return err
			}
			break
		}

		printQuestion(out, s)
		fmt.Fprint(out, "Your answer (A-D, q to quit): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if answer == "Q" {
			return nil
		}
		if !question.IsLetter(answer) {
			fmt.Fprintln(out, "Please answer with A, B, C or D.")
			continue
		}

		if err := s.Answer(ctx, answer); err != nil {
			var se *client.StatusError
			if errors.As(err, &se) && !se.Temporary() {
				return err
			}
			fmt.Fprintf(out, "%s (%v)\n", s.Feedback().Explanation, err)
			continue
		}
		if fb := s.Feedback(); fb != nil {
			fmt.Fprintf(out, "\n%s: %s\n", fb.Result, fb.Explanation)
		}
	}

	if c := s.Completion(); c != nil {
		fmt.Fprintf(out, "\n%s\nFinal score: %d/%d (%d%%)\n", c.Message, c.FinalScore, c.TotalQuestions, c.Percentage)
	}
	return nil
}

func printQuestion(out io.Writer, s *client.Session) {
	q := s.Current()
	if q == nil {
		return
	}
	if s.Mode() == quiz.ModeAdaptive {
		fmt.Fprintf(out, "\n[difficulty %d, score %d]\n", s.Difficulty(), s.Score())
	} else {
		fmt.Fprintf(out, "\n[question %d/%d, score %d]\n", s.QuestionNumber(), s.TotalQuestions(), s.Score())
	}
	fmt.Fprintln(out, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(out, "  %s\n", opt)
	}
}
