package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FlashcardStore defines persistence operations for flashcard sets.
type FlashcardStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]FlashcardSet, error)
	Create(ctx context.Context, set FlashcardSet) (FlashcardSet, error)
	Update(ctx context.Context, set FlashcardSet) (FlashcardSet, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

// QuizStore defines persistence operations for quizzes.
type QuizStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Quiz, error)
	Create(ctx context.Context, quiz Quiz) (Quiz, error)
	Update(ctx context.Context, quiz Quiz) (Quiz, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

// FlashcardSet is a titled, categorized collection of front/back card pairs
// owned by one user.
type FlashcardSet struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Cards       []Card    `json:"cards"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Card is a single front/back pair inside a flashcard set.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Front string    `json:"front"`
	Back  string    `json:"back"`
}

// Quiz is a titled, categorized collection of questions owned by one user.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// QuestionType enumerates question kinds.
type QuestionType string

const (
	// QuestionTypeMultipleChoice is a question answered by picking one of
	// four options.
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	// QuestionTypeWritten is a question answered with free text.
	QuestionTypeWritten QuestionType = "written"
)

// MultipleChoiceOptions is the fixed option count for multiple-choice
// questions.
const MultipleChoiceOptions = 4

// Question is a single quiz question with its known correct answer.
// Options and CorrectOption apply to multiple-choice questions, Answer to
// written ones.
type Question struct {
	ID            uuid.UUID    `json:"id"`
	Text          string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options"`
	CorrectOption int          `json:"correctOption"`
	Answer        string       `json:"answer"`
}
