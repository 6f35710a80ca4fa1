package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// CodeNotFound indicates a strict identity lookup found no match.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStorageFailure indicates an I/O or constraint failure at the
	// persistence boundary.
	CodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	// CodeInvalidInput indicates a malformed request (empty name, unknown
	// sort key, nil reference, a total that would overflow).
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error is the error type returned by the engine and by Persistence
// implementations.
//
// Two Errors match under errors.Is when their codes are equal, so the
// sentinels below can be used to test categories of wrapped errors.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Sentinels for errors.Is.
var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrStorageFailure = &Error{Code: CodeStorageFailure, Message: "storage failure"}
	ErrInvalidInput   = &Error{Code: CodeInvalidInput, Message: "invalid input"}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NotFound creates a CodeNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput creates a CodeInvalidInput error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// StorageFailure wraps a backend error. op names the failed operation.
// An err that already is a ledger *Error is returned unchanged so codes
// are never rewritten on the way up.
func StorageFailure(op string, err error) error {
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Code: CodeStorageFailure, Message: op, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorageFailure reports whether err is a storage failure.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// IsInvalidInput reports whether err is an invalid-input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
