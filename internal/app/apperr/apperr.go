package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so handlers can map it to an HTTP status without
// string matching.
type Kind int

const (
	// Authorization is returned when the actor lacks scope for the entity or action.
	Authorization Kind = iota + 1
	// Validation is returned for a missing or malformed required field.
	Validation
	// Conflict is returned when a state precondition no longer holds (lost a compare-and-set race).
	Conflict
	// NotFound is returned when referenced entity id does not exist.
	NotFound
)

// Error carries a kind and a human-readable message. No internal identifiers
// beyond what the caller already supplied.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...interface{}) *Error {
	return newf(Authorization, format, args...)
}

func Validationf(format string, args ...interface{}) *Error {
	return newf(Validation, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newf(Conflict, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newf(NotFound, format, args...)
}

// KindOf returns the kind of err, or 0 for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
