package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtereshkin/studykit/internal/logger"
	"github.com/dtereshkin/studykit/internal/model"
)

// CurrentUserProvider reports the current session user.
type CurrentUserProvider interface {
	CurrentUser() (model.UserView, bool)
}

// Content manages one user's flashcard sets and quizzes. Every operation is
// scoped to the provider's current user; with no current user, reads return
// empty collections and mutations fail with ErrNotAuthenticated.
type Content struct {
	flashcards model.FlashcardStore
	quizzes    model.QuizStore
	identity   CurrentUserProvider
	validate   *validator.Validate
	logger     *logger.Logger
}

func NewContent(
	flashcards model.FlashcardStore,
	quizzes model.QuizStore,
	identity CurrentUserProvider,
	logger *logger.Logger,
) *Content {
	return &Content{
		flashcards: flashcards,
		quizzes:    quizzes,
		identity:   identity,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// Collections holds both content kinds for one user.
type Collections struct {
	FlashcardSets []model.FlashcardSet
	Quizzes       []model.Quiz
}

// LoadAll reads both collections for the current user. With no current user
// it returns empty collections, not an error.
func (s *Content) LoadAll(ctx context.Context) (Collections, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return Collections{FlashcardSets: []model.FlashcardSet{}, Quizzes: []model.Quiz{}}, nil
	}

	sets, err := s.flashcards.GetByUserID(ctx, user.ID)
	if err != nil {
		return Collections{}, fmt.Errorf("failed to get flashcard sets: %w", err)
	}

	quizzes, err := s.quizzes.GetByUserID(ctx, user.ID)
	if err != nil {
		return Collections{}, fmt.Errorf("failed to get quizzes: %w", err)
	}

	return Collections{FlashcardSets: sets, Quizzes: quizzes}, nil
}

// CardInput is a card as submitted by the caller. Cards with a blank front
// or back are dropped during validation.
type CardInput struct {
	Front string
	Back  string
}

// FlashcardSetParams contains the content fields of a flashcard set.
type FlashcardSetParams struct {
	Title       string `validate:"required"`
	Description string
	Category    string `validate:"required"`
	Cards       []CardInput
}

// CreateFlashcardSet validates the input, stamps identity and timestamps,
// and appends the set to the current user's collection.
func (s *Content) CreateFlashcardSet(ctx context.Context, params FlashcardSetParams) (model.FlashcardSet, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return model.FlashcardSet{}, model.ErrNotAuthenticated
	}

	cards, err := s.validateSetParams(&params)
	if err != nil {
		return model.FlashcardSet{}, err
	}

	now := time.Now().UTC()
	set := model.FlashcardSet{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Cards:       cards,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	set, err = s.flashcards.Create(ctx, set)
	if err != nil {
		return model.FlashcardSet{}, fmt.Errorf("failed to create flashcard set: %w", err)
	}

	s.logger.Info("Content service: flashcard set created",
		"set_id", set.ID,
		"cards", len(set.Cards))

	return set, nil
}

// UpdateFlashcardSet replaces the content fields of the identified set and
// refreshes its update timestamp. A missing id fails with ErrNotFound.
func (s *Content) UpdateFlashcardSet(ctx context.Context, id uuid.UUID, params FlashcardSetParams) (model.FlashcardSet, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return model.FlashcardSet{}, model.ErrNotAuthenticated
	}

	cards, err := s.validateSetParams(&params)
	if err != nil {
		return model.FlashcardSet{}, err
	}

	existing, err := s.findFlashcardSet(ctx, user.ID, id)
	if err != nil {
		return model.FlashcardSet{}, err
	}

	existing.Title = params.Title
	existing.Description = params.Description
	existing.Category = params.Category
	existing.Cards = cards
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.flashcards.Update(ctx, existing)
	if err != nil {
		return model.FlashcardSet{}, fmt.Errorf("failed to update flashcard set: %w", err)
	}

	s.logger.Info("Content service: flashcard set updated", "set_id", id)

	return updated, nil
}

// DeleteFlashcardSet removes the identified set. A missing id fails with
// ErrNotFound.
func (s *Content) DeleteFlashcardSet(ctx context.Context, id uuid.UUID) error {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}

	if err := s.flashcards.Delete(ctx, user.ID, id); err != nil {
		return err
	}

	s.logger.Info("Content service: flashcard set deleted", "set_id", id)

	return nil
}

// QuestionInput is a question as submitted by the caller. Invalid questions
// are dropped during validation.
type QuestionInput struct {
	Text          string
	Type          model.QuestionType
	Options       []string
	CorrectOption int
	Answer        string
}

// QuizParams contains the content fields of a quiz.
type QuizParams struct {
	Title       string `validate:"required"`
	Description string
	Category    string `validate:"required"`
	Questions   []QuestionInput
}

// CreateQuiz validates the input, stamps identity and timestamps, and
// appends the quiz to the current user's collection.
func (s *Content) CreateQuiz(ctx context.Context, params QuizParams) (model.Quiz, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return model.Quiz{}, model.ErrNotAuthenticated
	}

	questions, err := s.validateQuizParams(&params)
	if err != nil {
		return model.Quiz{}, err
	}

	now := time.Now().UTC()
	quiz := model.Quiz{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	quiz, err = s.quizzes.Create(ctx, quiz)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("Content service: quiz created",
		"quiz_id", quiz.ID,
		"questions", len(quiz.Questions))

	return quiz, nil
}

// UpdateQuiz replaces the content fields of the identified quiz and
// refreshes its update timestamp. A missing id fails with ErrNotFound.
func (s *Content) UpdateQuiz(ctx context.Context, id uuid.UUID, params QuizParams) (model.Quiz, error) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return model.Quiz{}, model.ErrNotAuthenticated
	}

	questions, err := s.validateQuizParams(&params)
	if err != nil {
		return model.Quiz{}, err
	}

	existing, err := s.findQuiz(ctx, user.ID, id)
	if err != nil {
		return model.Quiz{}, err
	}

	existing.Title = params.Title
	existing.Description = params.Description
	existing.Category = params.Category
	existing.Questions = questions
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.quizzes.Update(ctx, existing)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.logger.Info("Content service: quiz updated", "quiz_id", id)

	return updated, nil
}

// DeleteQuiz removes the identified quiz. A missing id fails with
// ErrNotFound.
func (s *Content) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	user, ok := s.identity.CurrentUser()
	if !ok {
		return model.ErrNotAuthenticated
	}

	if err := s.quizzes.Delete(ctx, user.ID, id); err != nil {
		return err
	}

	s.logger.Info("Content service: quiz deleted", "quiz_id", id)

	return nil
}

// Search filters both collections by case-insensitive substring match
// against titles, descriptions, card faces, question text, and option
// strings. An empty query matches everything.
func (s *Content) Search(ctx context.Context, query string) (Collections, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return Collections{}, err
	}

	q := strings.ToLower(query)

	filtered := Collections{FlashcardSets: []model.FlashcardSet{}, Quizzes: []model.Quiz{}}
	for _, set := range all.FlashcardSets {
		if setMatches(set, q) {
			filtered.FlashcardSets = append(filtered.FlashcardSets, set)
		}
	}
	for _, quiz := range all.Quizzes {
		if quizMatches(quiz, q) {
			filtered.Quizzes = append(filtered.Quizzes, quiz)
		}
	}

	return filtered, nil
}

func setMatches(set model.FlashcardSet, q string) bool {
	if strings.Contains(strings.ToLower(set.Title), q) ||
		strings.Contains(strings.ToLower(set.Description), q) {
		return true
	}
	for _, card := range set.Cards {
		if strings.Contains(strings.ToLower(card.Front), q) ||
			strings.Contains(strings.ToLower(card.Back), q) {
			return true
		}
	}
	return false
}

func quizMatches(quiz model.Quiz, q string) bool {
	if strings.Contains(strings.ToLower(quiz.Title), q) ||
		strings.Contains(strings.ToLower(quiz.Description), q) {
		return true
	}
	for _, question := range quiz.Questions {
		if strings.Contains(strings.ToLower(question.Text), q) {
			return true
		}
		for _, option := range question.Options {
			if strings.Contains(strings.ToLower(option), q) {
				return true
			}
		}
	}
	return false
}

// validateSetParams trims the text fields, drops cards with a blank face,
// and requires at least one card to survive.
func (s *Content) validateSetParams(params *FlashcardSetParams) ([]model.Card, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)
	params.Category = strings.TrimSpace(params.Category)

	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}

	cards := make([]model.Card, 0, len(params.Cards))
	for _, c := range params.Cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			continue
		}
		cards = append(cards, model.Card{
			ID:    uuid.New(),
			Front: c.Front,
			Back:  c.Back,
		})
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: a set needs at least one card with both sides filled", model.ErrValidation)
	}

	return cards, nil
}

// validateQuizParams trims the text fields, drops invalid questions, and
// requires at least one question to survive. Multiple-choice questions need
// all four options filled and a correct option in range; written questions
// need a non-empty expected answer.
func (s *Content) validateQuizParams(params *QuizParams) ([]model.Question, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)
	params.Category = strings.TrimSpace(params.Category)

	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}

	questions := make([]model.Question, 0, len(params.Questions))
	for _, q := range params.Questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		switch q.Type {
		case model.QuestionTypeMultipleChoice:
			if len(q.Options) != model.MultipleChoiceOptions || !allFilled(q.Options) {
				continue
			}
			if q.CorrectOption < 0 || q.CorrectOption >= model.MultipleChoiceOptions {
				continue
			}
			questions = append(questions, model.Question{
				ID:            uuid.New(),
				Text:          q.Text,
				Type:          q.Type,
				Options:       q.Options,
				CorrectOption: q.CorrectOption,
			})
		case model.QuestionTypeWritten:
			if strings.TrimSpace(q.Answer) == "" {
				continue
			}
			questions = append(questions, model.Question{
				ID:      uuid.New(),
				Text:    q.Text,
				Type:    q.Type,
				Options: []string{},
				Answer:  q.Answer,
			})
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: a quiz needs at least one valid question", model.ErrValidation)
	}

	return questions, nil
}

func allFilled(options []string) bool {
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
	}
	return true
}

func (s *Content) findFlashcardSet(ctx context.Context, userID, id uuid.UUID) (model.FlashcardSet, error) {
	sets, err := s.flashcards.GetByUserID(ctx, userID)
	if err != nil {
		return model.FlashcardSet{}, fmt.Errorf("failed to get flashcard sets: %w", err)
	}
	for _, set := range sets {
		if set.ID == id {
			return set, nil
		}
	}
	return model.FlashcardSet{}, model.ErrNotFound
}

func (s *Content) findQuiz(ctx context.Context, userID, id uuid.UUID) (model.Quiz, error) {
	quizzes, err := s.quizzes.GetByUserID(ctx, userID)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to get quizzes: %w", err)
	}
	for _, quiz := range quizzes {
		if quiz.ID == id {
			return quiz, nil
		}
	}
	return model.Quiz{}, model.ErrNotFound
}
