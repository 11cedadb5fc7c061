package errors

import (
	"errors"
	"fmt"
)

// Re-export the standard helpers so callers only import one errors package.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error extends the basic error interface with a stable code.
type Error interface {
	error
	Code() string
	Unwrap() error
}

// AppError is the default Error implementation.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

// Message returns the user-facing message without the wrapped cause.
func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError creates a new application error.
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// Wrap wraps an existing error, keeping its code when it already is an AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return NewAppError(appErr.Code(), message, err)
	}

	return NewAppError(ErrInternal, message, err)
}

// AccessErrorMessage is the only message an access error ever shows. The
// underlying transport failure is kept as the wrapped cause for logging and
// must never reach the caller's response.
const AccessErrorMessage = "the mandate service could not be reached, please check your connection or try again later"

// NewAccessError signals a transport-level failure against the remote
// mandate service. All causes collapse into one generic message.
func NewAccessError(err error) *AppError {
	return NewAppError(ErrUnavailable, AccessErrorMessage, err)
}

// NewValidationError signals an application-level rejection whose message is
// safe to show to the caller, e.g. the body of a non-204 update response.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrInvalidArgument, message, nil)
}

// IsAccessError reports whether err is a transport-level access error.
func IsAccessError(err error) bool {
	var appErr *AppError
	return As(err, &appErr) && appErr.Code() == ErrUnavailable
}

// IsValidationError reports whether err carries a caller-visible message.
func IsValidationError(err error) bool {
	var appErr *AppError
	return As(err, &appErr) && appErr.Code() == ErrInvalidArgument
}
