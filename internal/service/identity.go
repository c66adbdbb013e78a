package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtereshkin/studykit/internal/logger"
	"github.com/dtereshkin/studykit/internal/model"
)

// Identity manages the registered-user directory and the current session
// user. The current user is held as explicit service state, loaded with
// RestoreSession and written back to the session store on every change.
type Identity struct {
	users    model.UserStore
	sessions model.SessionStore
	tokens   model.TokenManager
	validate *validator.Validate
	logger   *logger.Logger

	bcryptCost int

	mu      sync.Mutex
	current *model.UserView
}

func NewIdentity(
	users model.UserStore,
	sessions model.SessionStore,
	tokens model.TokenManager,
	logger *logger.Logger,
	bcryptCost int,
) *Identity {
	return &Identity{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// RegisterParams contains parameters to register a new user.
type RegisterParams struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Register appends a new user to the directory and establishes it as the
// current session user. Emails must be unique in the directory; the match is
// case-sensitive.
func (s *Identity) Register(ctx context.Context, params RegisterParams) (model.UserView, error) {
	s.logger.Debug("Identity service: registering user", "email", params.Email)

	if err := s.validate.Struct(params); err != nil {
		return model.UserView{}, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}

	_, err := s.users.GetByEmail(ctx, params.Email)
	if err == nil {
		s.logger.Info("Identity service: email already registered", "email", params.Email)
		return model.UserView{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.UserView{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return model.UserView{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Identity service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.UserView{}, fmt.Errorf("failed to create user: %w", err)
	}

	view := user.View()
	if err := s.establishSession(ctx, view); err != nil {
		return model.UserView{}, err
	}

	s.logger.Info("Identity service: user registered", "user_id", user.ID, "email", user.Email)

	return view, nil
}

// Login sets the current session user when the email and password both
// match a directory entry.
func (s *Identity) Login(ctx context.Context, email, password string) (model.UserView, error) {
	s.logger.Debug("Identity service: logging in user", "email", email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserView{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.UserView{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Identity service: password mismatch", "email", email)
		return model.UserView{}, model.ErrInvalidCredentials
	}

	view := user.View()
	if err := s.establishSession(ctx, view); err != nil {
		return model.UserView{}, err
	}

	s.logger.Info("Identity service: user logged in", "user_id", user.ID)

	return view, nil
}

// Logout clears the current session user. It never fails on an absent
// session.
func (s *Identity) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.logger.Info("Identity service: user logged out")

	return nil
}

// ProfilePatch carries profile fields to change. Empty fields are left
// unchanged.
type ProfilePatch struct {
	Name  string
	Email string
}

// UpdateProfile merges the patch into the current session user and the
// matching directory entry. Changing the email to one held by another
// directory entry fails with ErrDuplicateEmail.
func (s *Identity) UpdateProfile(ctx context.Context, patch ProfilePatch) (model.UserView, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return model.UserView{}, model.ErrNotAuthenticated
	}

	user, err := s.users.GetByID(ctx, current.ID)
	if err != nil {
		return model.UserView{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if patch.Email != "" && patch.Email != user.Email {
		other, err := s.users.GetByEmail(ctx, patch.Email)
		if err == nil && other.ID != user.ID {
			return model.UserView{}, model.ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return model.UserView{}, fmt.Errorf("failed to get user by email: %w", err)
		}
		user.Email = patch.Email
	}
	if patch.Name != "" {
		user.Name = patch.Name
	}
	user.UpdatedAt = time.Now().UTC()

	if _, err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Identity service: failed to update user",
			"user_id", user.ID,
			"error", err.Error())
		return model.UserView{}, fmt.Errorf("failed to update user: %w", err)
	}

	view := user.View()
	if err := s.establishSession(ctx, view); err != nil {
		return model.UserView{}, err
	}

	s.logger.Info("Identity service: profile updated", "user_id", user.ID)

	return view, nil
}

// RestoreSession reads any persisted session and restores it as current.
// The password is not re-verified; only the session token signature and
// expiry are checked. An absent or unusable session maps to ErrNotFound.
func (s *Identity) RestoreSession(ctx context.Context) (model.UserView, error) {
	session, err := s.sessions.Load(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserView{}, model.ErrNotFound
	}
	if err != nil {
		return model.UserView{}, fmt.Errorf("failed to load session: %w", err)
	}

	userID, err := s.tokens.ParseSessionToken(session.Token)
	if err != nil || userID != session.User.ID {
		s.logger.Info("Identity service: discarding stale session")
		if clearErr := s.sessions.Clear(ctx); clearErr != nil {
			return model.UserView{}, fmt.Errorf("failed to clear stale session: %w", clearErr)
		}
		return model.UserView{}, model.ErrNotFound
	}

	s.mu.Lock()
	view := session.User
	s.current = &view
	s.mu.Unlock()

	s.logger.Debug("Identity service: session restored", "user_id", session.User.ID)

	return session.User, nil
}

// CurrentUser returns the current session user, if any.
func (s *Identity) CurrentUser() (model.UserView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.UserView{}, false
	}
	return *s.current, true
}

func (s *Identity) establishSession(ctx context.Context, view model.UserView) error {
	tokenString, err := s.tokens.GenerateSessionToken(view.ID)
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.sessions.Save(ctx, model.Session{User: view, Token: tokenString}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.current = &view
	s.mu.Unlock()

	return nil
}
