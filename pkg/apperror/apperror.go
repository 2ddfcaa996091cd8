// Package apperror defines the domain error kinds rendered by the HTTP error boundary.
// Each error carries the status it maps to and an optional field-level detail map.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a recognized domain error. Anything that is not an *Error reaching
// the boundary is treated as an internal fault.
type Error struct {
	Status   int
	Message  string
	Details  map[string]string
	Metadata any
	cause    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	for k, v := range e.Details {
		return k + ": " + v
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error for server-side logging. It is never rendered.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// WithMetadata attaches extra data rendered next to the message.
func (e *Error) WithMetadata(md any) *Error {
	e.Metadata = md
	return e
}

func newError(status int, message string, details map[string]string) *Error {
	if message == "" && len(details) == 0 {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message, Details: details}
}

func Conflict(message string, details map[string]string) *Error {
	return newError(http.StatusConflict, message, details)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, message, nil)
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message, nil)
}

func UnprocessableEntity(message string, details map[string]string) *Error {
	return newError(http.StatusUnprocessableEntity, message, details)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message, nil)
}

func TooManyRequests(message string) *Error {
	return newError(http.StatusTooManyRequests, message, nil)
}

// As extracts a domain error from err, looking through wrapping.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasStatus reports whether err is a domain error with the given status.
func HasStatus(err error, status int) bool {
	ae, ok := As(err)
	return ok && ae.Status == status
}
