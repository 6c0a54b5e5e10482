// Package apperr provides standardized error types for the HTTP boundary.
// Handlers return these typed errors and httpkit maps them to status codes.
// The search engine itself never returns them; it degrades to empty results.
package apperr

import "net/http"

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindValidation indicates invalid input data.
	KindValidation
	// KindBadRequest indicates a malformed request.
	KindBadRequest
	// KindUnavailable indicates a dependency is not reachable.
	KindUnavailable
)

// Error is a typed error with a Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Details any // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// New creates a new error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithDetails sets response details and returns the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Unavailable creates a dependency-unavailable error.
func Unavailable(message string) *Error {
	return New(KindUnavailable, message)
}
