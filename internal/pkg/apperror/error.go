package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so transports can map it without knowing the domain.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
)

// Error is a kind-tagged error. Domain packages declare sentinels built from it
// and callers match them with errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func State(message string) *Error      { return New(KindState, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }

// Wrap attaches a cause to a kind. The result still matches the sentinel it
// was derived from when sentinel is passed as the cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Validationf builds a validation error around a sentinel with extra detail.
func Validationf(sentinel error, format string, args ...any) error {
	return Wrap(KindValidation, fmt.Sprintf(format, args...), sentinel)
}

// KindOf returns the kind of the first *Error in the chain, or "" when the
// error is not classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsState(err error) bool      { return KindOf(err) == KindState }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool  { return KindOf(err) == KindForbidden }

// IsClientError reports whether err was caused by the caller rather than the system.
func IsClientError(err error) bool {
	return KindOf(err) != ""
}

// MessageOf returns the outermost classified message, falling back to err.Error().
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
