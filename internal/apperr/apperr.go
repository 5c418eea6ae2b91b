// Package apperr defines the typed errors reported by workflows and middleware.
// Each error carries the HTTP status and client-facing message it maps to.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnknown            Kind = "unknown"
	KindValidation         Kind = "validation"
	KindDuplicateAccount   Kind = "duplicate_account"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindAuth               Kind = "auth"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidMedia       Kind = "invalid_media"
	KindResolution         Kind = "resolution"
	KindPersistence        Kind = "persistence"
	KindRateLimited        Kind = "rate_limited"
)

// DefaultMessage is returned to clients for errors without a message.
const DefaultMessage = "An unknown error occurred"

// Error is an application failure with its HTTP mapping.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Err is the underlying cause. It is logged, never sent to clients.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// WithStatus returns a copy of e carrying a different status.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusUnprocessableEntity, message)
}

func DuplicateAccount(message string) *Error {
	return New(KindDuplicateAccount, http.StatusUnprocessableEntity, message)
}

// NotFound defaults to 404; login overrides it to 401.
func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusUnauthorized, message)
}

func Auth(message string) *Error {
	return New(KindAuth, http.StatusUnauthorized, message)
}

func InvalidCredentials(message string) *Error {
	return New(KindInvalidCredentials, http.StatusForbidden, message)
}

func InvalidMedia(message string) *Error {
	return New(KindInvalidMedia, http.StatusUnprocessableEntity, message)
}

func Resolution(message string) *Error {
	return New(KindResolution, http.StatusUnprocessableEntity, message)
}

func Persistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

func Unknown(message string, cause error) *Error {
	return &Error{Kind: KindUnknown, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

func RateLimited(message string) *Error {
	return New(KindRateLimited, http.StatusTooManyRequests, message)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err's chain holds an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// StatusOf returns the carried status, or 500 when there is none.
func StatusOf(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message. Foreign errors never leak their text.
func MessageOf(err error) string {
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	return DefaultMessage
}
