package model

import "context"

// SessionStore persists the current-session user between process runs.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
}

// Session is the persisted current-user record together with its signed
// session token.
type Session struct {
	User  UserView
	Token string
}
