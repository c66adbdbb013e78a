package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtereshkin/studykit/internal/model"
)

func quizzesKey(userID uuid.UUID) string {
	return fmt.Sprintf("quizzes_%s", userID)
}

var _ model.QuizStore = (*QuizRepository)(nil)

// QuizRepository keeps one user's quizzes as a single array value and
// rewrites the whole collection on every mutation.
type QuizRepository struct {
	store model.KV
	mu    sync.Mutex
}

func NewQuizRepository(store model.KV) *QuizRepository {
	return &QuizRepository{
		store: store,
	}
}

func (r *QuizRepository) load(ctx context.Context, userID uuid.UUID) ([]model.Quiz, error) {
	data, err := r.store.Get(ctx, quizzesKey(userID))
	if errors.Is(err, model.ErrNotFound) {
		return []model.Quiz{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read quizzes: %w", err)
	}

	var quizzes []model.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to decode quizzes: %w", err)
	}

	return quizzes, nil
}

func (r *QuizRepository) save(ctx context.Context, userID uuid.UUID, quizzes []model.Quiz) error {
	data, err := json.Marshal(quizzes)
	if err != nil {
		return fmt.Errorf("failed to encode quizzes: %w", err)
	}

	if err := r.store.Set(ctx, quizzesKey(userID), data); err != nil {
		return fmt.Errorf("failed to write quizzes: %w", err)
	}

	return nil
}

// GetByUserID returns the user's quizzes. An absent collection is empty, not
// an error.
func (r *QuizRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx, userID)
}

func (r *QuizRepository) Create(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load(ctx, quiz.UserID)
	if err != nil {
		return model.Quiz{}, err
	}

	quizzes = append(quizzes, quiz)
	if err := r.save(ctx, quiz.UserID, quizzes); err != nil {
		return model.Quiz{}, err
	}

	return quiz, nil
}

func (r *QuizRepository) Update(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load(ctx, quiz.UserID)
	if err != nil {
		return model.Quiz{}, err
	}

	for i := range quizzes {
		if quizzes[i].ID == quiz.ID {
			quizzes[i] = quiz
			if err := r.save(ctx, quiz.UserID, quizzes); err != nil {
				return model.Quiz{}, err
			}
			return quiz, nil
		}
	}

	return model.Quiz{}, model.ErrNotFound
}

func (r *QuizRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.load(ctx, userID)
	if err != nil {
		return err
	}

	for i := range quizzes {
		if quizzes[i].ID == id {
			quizzes = append(quizzes[:i], quizzes[i+1:]...)
			return r.save(ctx, userID, quizzes)
		}
	}

	return model.ErrNotFound
}
