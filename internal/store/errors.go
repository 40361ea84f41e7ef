package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code and message, so that
// errors.Is(err, ErrNotFound) holds for wrapped copies made by WithCause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrEmailTaken = &Error{
		Code:    http.StatusConflict,
		Message: "email already in use",
	}

	ErrUsernameTaken = &Error{
		Code:    http.StatusConflict,
		Message: "username already taken",
	}

	ErrSlugTaken = &Error{
		Code:    http.StatusConflict,
		Message: "slug already in use",
	}

	ErrAlreadyCopied = &Error{
		Code:    http.StatusConflict,
		Message: "list already copied",
	}

	// ErrInvalidMember is returned when a reorder names an id outside its scope.
	ErrInvalidMember = &Error{
		Code:    http.StatusBadRequest,
		Message: "id outside of reorder scope",
	}
)
