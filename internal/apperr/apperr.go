// Package apperr classifies application failures so the HTTP layer can map
// them to status codes without string matching.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies the class of a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error is a classified application error. The Message is safe to surface to
// clients; the wrapped error (if any) is for server-side logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authentication reports a missing, invalid, or expired credential.
func Authentication(message string) error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization reports that an authenticated actor is denied by policy.
func Authorization(message string) error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound reports that a referenced resource does not exist.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a uniqueness violation, e.g. a duplicate email.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging but
// never leaks to the client.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}

// StatusCode maps an error to its HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation, KindConflict:
		// Duplicate email is surfaced as 400 like any other bad input.
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to show to a client. Unclassified
// and internal errors collapse to a generic message.
func ClientMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "Internal Server Error"
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
