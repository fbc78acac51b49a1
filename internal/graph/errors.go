package graph

import (
	"errors"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
)

// Machine-readable error codes carried in extensions.code. Business-rule
// failures (CONFLICT, NOT_FOUND) are distinguishable from store failures so a
// caller can show a form error for one and retry the other.
const (
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeStoreError   = "STORE_ERROR"
)

// Error is a resolver error with a code. It implements
// gqlerrors.ExtendedError, so the code surfaces under extensions in the
// GraphQL error entry while the HTTP status stays 200.
type Error struct {
	code string
	err  error
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Code() string { return e.code }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// convertError maps domain sentinels onto codes. Anything unrecognized is a
// store-level failure.
func convertError(err error) *Error {
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}

	code := CodeStoreError
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		code = CodeConflict
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, events.ErrCreatorNotFound),
		errors.Is(err, events.ErrEventNotFound):
		code = CodeNotFound
	case errors.Is(err, users.ErrInvalidInput),
		errors.Is(err, events.ErrInvalidInput):
		code = CodeInvalidInput
	}
	return &Error{code: code, err: err}
}
