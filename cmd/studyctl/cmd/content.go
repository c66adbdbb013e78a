package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtereshkin/studykit/internal/model"
	"github.com/dtereshkin/studykit/internal/service"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current user's flashcard sets and quizzes",
	RunE:  runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles, descriptions, cards and questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage flashcard sets",
}

var setCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a flashcard set from a JSON file",
	Long: `Create a flashcard set from a JSON file shaped like:

  {
    "title": "European Capitals",
    "description": "Week 3 review",
    "category": "Geography",
    "cards": [
      {"front": "France", "back": "Paris"}
    ]
  }`,
	RunE: runSetCreate,
}

var setUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a flashcard set's content from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetUpdate,
}

var setDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a flashcard set",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetDelete,
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Manage quizzes",
}

var quizCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a quiz from a JSON file",
	Long: `Create a quiz from a JSON file shaped like:

  {
    "title": "Capitals Quiz",
    "category": "Geography",
    "questions": [
      {
        "question": "Capital of France?",
        "type": "multiple-choice",
        "options": ["Paris", "Lyon", "Nice", "Lille"],
        "correctOption": 0
      },
      {
        "question": "Capital of Portugal?",
        "type": "written",
        "answer": "Lisbon"
      }
    ]
  }`,
	RunE: runQuizCreate,
}

var quizUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a quiz's content from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizUpdate,
}

var quizDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a quiz",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizDelete,
}

func init() {
	setCreateCmd.Flags().String("file", "", "path to the set JSON file")
	setUpdateCmd.Flags().String("file", "", "path to the set JSON file")
	quizCreateCmd.Flags().String("file", "", "path to the quiz JSON file")
	quizUpdateCmd.Flags().String("file", "", "path to the quiz JSON file")

	setCmd.AddCommand(setCreateCmd, setUpdateCmd, setDeleteCmd)
	quizCmd.AddCommand(quizCreateCmd, quizUpdateCmd, quizDeleteCmd)
	rootCmd.AddCommand(listCmd, searchCmd, setCmd, quizCmd)
}

// setFile mirrors the JSON shape accepted by `set create`/`set update`.
type setFile struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Cards       []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"cards"`
}

// quizFile mirrors the JSON shape accepted by `quiz create`/`quiz update`.
type quizFile struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Questions   []struct {
		Question      string             `json:"question"`
		Type          model.QuestionType `json:"type"`
		Options       []string           `json:"options"`
		CorrectOption int                `json:"correctOption"`
		Answer        string             `json:"answer"`
	} `json:"questions"`
}

func readSetParams(cmd *cobra.Command) (service.FlashcardSetParams, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return service.FlashcardSetParams{}, fmt.Errorf("pass --file with the set JSON")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return service.FlashcardSetParams{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var in setFile
	if err := json.Unmarshal(data, &in); err != nil {
		return service.FlashcardSetParams{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	params := service.FlashcardSetParams{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
	}
	for _, c := range in.Cards {
		params.Cards = append(params.Cards, service.CardInput{Front: c.Front, Back: c.Back})
	}
	return params, nil
}

func readQuizParams(cmd *cobra.Command) (service.QuizParams, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return service.QuizParams{}, fmt.Errorf("pass --file with the quiz JSON")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return service.QuizParams{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var in quizFile
	if err := json.Unmarshal(data, &in); err != nil {
		return service.QuizParams{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	params := service.QuizParams{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
	}
	for _, q := range in.Questions {
		params.Questions = append(params.Questions, service.QuestionInput{
			Text:          q.Question,
			Type:          q.Type,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Answer:        q.Answer,
		})
	}
	return params, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	all, err := a.content.LoadAll(ctx)
	if err != nil {
		return err
	}

	printCollections(cmd, all)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	found, err := a.content.Search(ctx, args[0])
	if err != nil {
		return err
	}

	printCollections(cmd, found)
	return nil
}

func printCollections(cmd *cobra.Command, c service.Collections) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Flashcard sets (%d):\n", len(c.FlashcardSets))
	for _, set := range c.FlashcardSets {
		fmt.Fprintf(out, "  %s  %-30s  %s  %d cards\n", set.ID, set.Title, set.Category, len(set.Cards))
	}

	fmt.Fprintf(out, "Quizzes (%d):\n", len(c.Quizzes))
	for _, quiz := range c.Quizzes {
		fmt.Fprintf(out, "  %s  %-30s  %s  %d questions\n", quiz.ID, quiz.Title, quiz.Category, len(quiz.Questions))
	}
}

func runSetCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	params, err := readSetParams(cmd)
	if err != nil {
		return err
	}

	set, err := a.content.CreateFlashcardSet(ctx, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created set %q with %d cards (id %s)\n", set.Title, len(set.Cards), set.ID)
	return nil
}

func runSetUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[0])
	}

	params, err := readSetParams(cmd)
	if err != nil {
		return err
	}

	set, err := a.content.UpdateFlashcardSet(ctx, id, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated set %q with %d cards\n", set.Title, len(set.Cards))
	return nil
}

func runSetDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid set id %q", args[0])
	}

	if err := a.content.DeleteFlashcardSet(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Set deleted")
	return nil
}

func runQuizCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	params, err := readQuizParams(cmd)
	if err != nil {
		return err
	}

	quiz, err := a.content.CreateQuiz(ctx, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created quiz %q with %d questions (id %s)\n", quiz.Title, len(quiz.Questions), quiz.ID)
	return nil
}

func runQuizUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid quiz id %q", args[0])
	}

	params, err := readQuizParams(cmd)
	if err != nil {
		return err
	}

	quiz, err := a.content.UpdateQuiz(ctx, id, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated quiz %q with %d questions\n", quiz.Title, len(quiz.Questions))
	return nil
}

func runQuizDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid quiz id %q", args[0])
	}

	if err := a.content.DeleteQuiz(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Quiz deleted")
	return nil
}
