package domain

import (
	"errors"
	"fmt"
)

var ErrDuplicateEmail = errors.New("email is already in use")
var ErrUnsupportedDomain = errors.New("unsupported email domain")
var ErrInvalidCredentials = errors.New("wrong email or password")
var ErrNoActiveSession = errors.New("no user is logged in")
var ErrRepositoryUnavailable = errors.New("repository is not initialized")

// Repository-level errors.
var ErrNotFound = errors.New("entity not found")
var ErrDuplicateID = errors.New("entity id already exists")

// ValidationError marks input that was rejected before any business rule ran.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err belongs to the validation category.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
