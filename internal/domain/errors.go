package domain

import "fmt"

// Error is the single error type raised by the core. It carries a closed
// code so callers can branch with errors.Is/errors.As instead of string
// matching, and an optional Cause for unwrapping.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, &Error{Code: ErrCellLocked}) to match on code
// alone, independent of message/cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Closed set of error codes used throughout the core.
const (
	// ErrCellLocked: an attempt to mutate a locked Schedule cell (I1).
	ErrCellLocked = "CELL_LOCKED"
	// ErrInvalidInput: caller-supplied value failed basic validation.
	ErrInvalidInput = "INVALID_INPUT"
	// ErrInvariantViolated: the engine itself attempted something that would
	// break a documented invariant (I1-I5). Treated as a bug, never partially
	// persisted.
	ErrInvariantViolated = "INVARIANT_VIOLATED"
	// ErrNotFound: a lookup (class, teacher, slot, constraint) found nothing.
	ErrNotFound = "NOT_FOUND"
	// ErrConfig: malformed or incomplete configuration/rules/input supplied
	// by an external adapter. The core refuses to start a generation job.
	ErrConfig = "CONFIG_ERROR"
	// ErrInternal: an unexpected engine-side failure distinct from a
	// constraint violation (which is data, not an error).
	ErrInternal = "INTERNAL_ERROR"
)

func NewError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func CellLockedError(message string) *Error   { return NewError(ErrCellLocked, message, nil) }
func InvalidInputError(message string) *Error { return NewError(ErrInvalidInput, message, nil) }
func NotFoundError(message string) *Error     { return NewError(ErrNotFound, message, nil) }
func ConfigError(message string, cause error) *Error {
	return NewError(ErrConfig, message, cause)
}
func InvariantError(message string) *Error {
	return NewError(ErrInvariantViolated, message, nil)
}
func InternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}
