package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtereshkin/studykit/internal/model"
	"github.com/dtereshkin/studykit/internal/study"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Run an interactive study session",
}

var studyFlashcardsCmd = &cobra.Command{
	Use:   "flashcards <set-id>",
	Short: "Review a flashcard set",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudyFlashcards,
}

var studyQuizCmd = &cobra.Command{
	Use:   "quiz <quiz-id>",
	Short: "Take a quiz",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudyQuiz,
}

func init() {
	studyCmd.AddCommand(studyFlashcardsCmd, studyQuizCmd)
	rootCmd.AddCommand(studyCmd)
}

func runStudyFlashcards(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[0])
	}

	all, err := a.content.LoadAll(ctx)
	if err != nil {
		return err
	}

	var set *model.FlashcardSet
	for i := range all.FlashcardSets {
		if all.FlashcardSets[i].ID == id {
			set = &all.FlashcardSets[i]
			break
		}
	}
	if set == nil {
		return model.ErrNotFound
	}

	session, err := study.NewFlashcardSession(*set)
	if err != nil {
		return err
	}

	return flashcardLoop(cmd.OutOrStdout(), os.Stdin, session, set.Title)
}

func runStudyQuiz(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid quiz id %q", args[0])
	}

	all, err := a.content.LoadAll(ctx)
	if err != nil {
		return err
	}

	var quiz *model.Quiz
	for i := range all.Quizzes {
		if all.Quizzes[i].ID == id {
			quiz = &all.Quizzes[i]
			break
		}
	}
	if quiz == nil {
		return model.ErrNotFound
	}

	session, err := study.NewQuizSession(*quiz)
	if err != nil {
		return err
	}

	return quizLoop(cmd.OutOrStdout(), os.Stdin, session, quiz.Title)
}

func flashcardLoop(out io.Writer, in io.Reader, session *study.Session, title string) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "Studying %q. Commands: flip, next, prev, restart, quit.\n", title)
	for !session.Completed() {
		card, err := session.CurrentCard()
		if err != nil {
			return err
		}

		side, text := "front", card.Front
		if session.Flipped() {
			side, text = "back", card.Back
		}
		fmt.Fprintf(out, "\n[%d/%d, %.0f%%] (%s) %s\n", session.CurrentIndex()+1, session.TotalItems(), session.Progress(), side, text)
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "flip", "f", "":
			if err := session.Flip(); err != nil {
				return err
			}
		case "next", "n":
			session.Advance()
		case "prev", "p":
			session.Retreat()
		case "restart", "r":
			session.Restart()
		case "quit", "q":
			return nil
		default:
			fmt.Fprintln(out, "Commands: flip, next, prev, restart, quit.")
		}
	}

	fmt.Fprintf(out, "\nDone. Reviewed all %d cards.\n", session.TotalItems())
	return nil
}

func quizLoop(out io.Writer, in io.Reader, session *study.Session, title string) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "Quiz %q. Answer with an option number or text; prev, restart and quit also work.\n", title)
	for !session.Completed() {
		question, err := session.CurrentQuestion()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n[%d/%d, %.0f%%] %s\n", session.CurrentIndex()+1, session.TotalItems(), session.Progress(), question.Text)
		if question.Type == model.QuestionTypeMultipleChoice {
			for i, option := range question.Options {
				fmt.Fprintf(out, "  %d) %s\n", i+1, option)
			}
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "prev", "p":
			session.Retreat()
			continue
		case "restart", "r":
			session.Restart()
			continue
		case "quit", "q":
			return nil
		}

		answer, err := submitLine(session, question, line)
		switch err {
		case nil:
		case study.ErrEmptyAnswer, study.ErrNoSelection:
			fmt.Fprintln(out, err)
			continue
		default:
			return err
		}

		if answer.IsCorrect {
			fmt.Fprintln(out, "Correct!")
		} else if question.Type == model.QuestionTypeMultipleChoice {
			fmt.Fprintf(out, "Wrong. The answer was: %s\n", question.Options[question.CorrectOption])
		} else {
			fmt.Fprintf(out, "Wrong. The answer was: %s\n", question.Answer)
		}
		session.Advance()
	}

	summary, err := session.Summary()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScore: %d/%d (%d%%)\n", summary.Score, summary.Total, summary.Percentage)
	for i, result := range summary.Results {
		mark := "skipped"
		if result.Answered {
			mark = "wrong"
			if result.Answer.IsCorrect {
				mark = "correct"
			}
		}
		fmt.Fprintf(out, "  %d. %-40s %s\n", i+1, result.Question.Text, mark)
	}
	return nil
}

// submitLine grades one line of input: an option number for multiple
// choice, free text for written questions.
func submitLine(session *study.Session, question model.Question, line string) (study.Answer, error) {
	if question.Type == model.QuestionTypeMultipleChoice {
		n, err := strconv.Atoi(line)
		if err != nil {
			return study.Answer{}, study.ErrNoSelection
		}
		return session.SubmitOption(n - 1)
	}
	return session.SubmitWritten(line)
}
