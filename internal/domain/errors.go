package domain

import (
	"errors"
	"fmt"
)

// Domain error categories (no external dependencies).
// The HTTP layer maps each category to one status code.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict with current state")
)

// Specific errors reused across use cases.
var (
	ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &Error{Kind: ErrUnauthorized, Message: "Invalid or expired access token"}
	ErrEmailAlreadyExists = &Error{Kind: ErrConflict, Message: "User with this email already exists"}
	ErrUserNotFound       = &Error{Kind: ErrNotFound, Message: "User not found"}
	ErrStoreNotFound      = &Error{Kind: ErrNotFound, Message: "Store not found"}
	ErrRatingNotFound     = &Error{Kind: ErrNotFound, Message: "Rating not found"}
	ErrStoreEmailTaken    = &Error{Kind: ErrConflict, Message: "A store with this email already exists"}
	ErrAlreadyRated       = &Error{Kind: ErrConflict, Message: "You have already rated this store. Use update instead."}
)

// Error carries a user-visible message together with its category.
// errors.Is(err, ErrConflict) holds for an *Error whose Kind is ErrConflict.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a forbidden error with a formatted message.
func Forbiddenf(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}
