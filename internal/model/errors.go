package model

import "errors"

var (
	// ErrNotFound is returned when a record or key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned when no user matches the given
	// email and password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotAuthenticated is returned when an operation requires a current
	// session user and none is established.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrValidation is returned when input fails validation. It is usually
	// wrapped with a specific message.
	ErrValidation = errors.New("validation failed")
)
