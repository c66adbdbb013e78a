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

const usersKey = "users"

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps the whole registered-user directory under one key and
// rewrites it on every mutation. The mutex serializes read-modify-write
// cycles within the process; concurrent processes sharing a profile remain
// last-write-wins.
type UserRepository struct {
	store model.KV
	mu    sync.Mutex
}

func NewUserRepository(store model.KV) *UserRepository {
	return &UserRepository{
		store: store,
	}
}

func (r *UserRepository) load(ctx context.Context) ([]model.User, error) {
	data, err := r.store.Get(ctx, usersKey)
	if errors.Is(err, model.ErrNotFound) {
		return []model.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user directory: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode user directory: %w", err)
	}

	return users, nil
}

func (r *UserRepository) save(ctx context.Context, users []model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode user directory: %w", err)
	}

	if err := r.store.Set(ctx, usersKey, data); err != nil {
		return fmt.Errorf("failed to write user directory: %w", err)
	}

	return nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// GetByEmail matches emails case-sensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}

	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}

	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	users = append(users, user)
	if err := r.save(ctx, users); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			if err := r.save(ctx, users); err != nil {
				return model.User{}, err
			}
			return user, nil
		}
	}

	return model.User{}, model.ErrNotFound
}
