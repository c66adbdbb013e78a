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

func flashcardsKey(userID uuid.UUID) string {
	return fmt.Sprintf("flashcards_%s", userID)
}

var _ model.FlashcardStore = (*FlashcardRepository)(nil)

// FlashcardRepository keeps one user's flashcard sets as a single array
// value and rewrites the whole collection on every mutation.
type FlashcardRepository struct {
	store model.KV
	mu    sync.Mutex
}

func NewFlashcardRepository(store model.KV) *FlashcardRepository {
	return &FlashcardRepository{
		store: store,
	}
}

func (r *FlashcardRepository) load(ctx context.Context, userID uuid.UUID) ([]model.FlashcardSet, error) {
	data, err := r.store.Get(ctx, flashcardsKey(userID))
	if errors.Is(err, model.ErrNotFound) {
		return []model.FlashcardSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read flashcard sets: %w", err)
	}

	var sets []model.FlashcardSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("failed to decode flashcard sets: %w", err)
	}

	return sets, nil
}

func (r *FlashcardRepository) save(ctx context.Context, userID uuid.UUID, sets []model.FlashcardSet) error {
	data, err := json.Marshal(sets)
	if err != nil {
		return fmt.Errorf("failed to encode flashcard sets: %w", err)
	}

	if err := r.store.Set(ctx, flashcardsKey(userID), data); err != nil {
		return fmt.Errorf("failed to write flashcard sets: %w", err)
	}

	return nil
}

// GetByUserID returns the user's sets. An absent collection is empty, not an
// error.
func (r *FlashcardRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.FlashcardSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx, userID)
}

func (r *FlashcardRepository) Create(ctx context.Context, set model.FlashcardSet) (model.FlashcardSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sets, err := r.load(ctx, set.UserID)
	if err != nil {
		return model.FlashcardSet{}, err
	}

	sets = append(sets, set)
	if err := r.save(ctx, set.UserID, sets); err != nil {
		return model.FlashcardSet{}, err
	}

	return set, nil
}

func (r *FlashcardRepository) Update(ctx context.Context, set model.FlashcardSet) (model.FlashcardSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sets, err := r.load(ctx, set.UserID)
	if err != nil {
		return model.FlashcardSet{}, err
	}

	for i := range sets {
		if sets[i].ID == set.ID {
			sets[i] = set
			if err := r.save(ctx, set.UserID, sets); err != nil {
				return model.FlashcardSet{}, err
			}
			return set, nil
		}
	}

	return model.FlashcardSet{}, model.ErrNotFound
}

func (r *FlashcardRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sets, err := r.load(ctx, userID)
	if err != nil {
		return err
	}

	for i := range sets {
		if sets[i].ID == id {
			sets = append(sets[:i], sets[i+1:]...)
			return r.save(ctx, userID, sets)
		}
	}

	return model.ErrNotFound
}
