// Package apperr defines the application error type the HTTP layer
// translates into response envelopes.
package apperr

import (
	"errors"
	"net/http"
)

// ErrNoRecord marks store lookups that matched no row. Repositories wrap it
// with detail; the HTTP layer answers it with 404 "Record not found".
var ErrNoRecord = errors.New("record not found")

// Error is an error with an associated HTTP status. Handlers and services
// return these when the failure maps onto a specific client-facing response;
// anything else is treated as an internal server error.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap creates an Error that carries the underlying cause for logging.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// BadRequest returns a 400 error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NotFound returns a 404 error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict returns a 409 error.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal returns a 500 error wrapping the cause.
func Internal(message string, err error) *Error {
	return Wrap(http.StatusInternalServerError, message, err)
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
