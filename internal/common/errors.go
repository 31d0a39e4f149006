// Package common provides shared utilities and types used across the
// application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrAuthExpired means the stored credential was rejected or has
	// expired. The gateway clears it; the caller should prompt for login.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrNotLoggedIn means no credential is stored at all.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrItemNotFound means an item id is not present in local state.
	ErrItemNotFound = errors.New("item not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RequestError is a non-2xx, non-401 response from the backend. Detail
// carries the server's human-readable message when one was provided
// (category creation returns one).
type RequestError struct {
	Detail string
	Status int
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server rejected request (%d)", e.Status)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
