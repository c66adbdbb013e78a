package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtereshkin/studykit/internal/model"
)

const (
	sessionUserKey  = "user"
	sessionTokenKey = "session"
)

var _ model.SessionStore = (*SessionRepository)(nil)

// SessionRepository persists the current-session user view under one key and
// its signed token under another.
type SessionRepository struct {
	store model.KV
}

func NewSessionRepository(store model.KV) *SessionRepository {
	return &SessionRepository{
		store: store,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session model.Session) error {
	data, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	if err := r.store.Set(ctx, sessionUserKey, data); err != nil {
		return fmt.Errorf("failed to write session user: %w", err)
	}
	if err := r.store.Set(ctx, sessionTokenKey, []byte(session.Token)); err != nil {
		return fmt.Errorf("failed to write session token: %w", err)
	}

	return nil
}

// Load returns model.ErrNotFound when no session is persisted.
func (r *SessionRepository) Load(ctx context.Context) (model.Session, error) {
	data, err := r.store.Get(ctx, sessionUserKey)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to read session user: %w", err)
	}

	var view model.UserView
	if err := json.Unmarshal(data, &view); err != nil {
		return model.Session{}, fmt.Errorf("failed to decode session user: %w", err)
	}

	token, err := r.store.Get(ctx, sessionTokenKey)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to read session token: %w", err)
	}

	return model.Session{User: view, Token: string(token)}, nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, sessionUserKey); err != nil {
		return fmt.Errorf("failed to clear session user: %w", err)
	}
	if err := r.store.Delete(ctx, sessionTokenKey); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}

	return nil
}
