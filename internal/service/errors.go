package service

import "errors"

// Error kinds. Every error returned by the services matches exactly one of
// these with errors.Is; handlers map the kind to a status code.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

// Error is a service error with a message that is safe to show to clients.
type Error struct {
	kind    error
	message string
}

func newError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string {
	return e.message
}

// Is matches the error's kind as well as the error itself.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Kind returns the kind sentinel.
func (e *Error) Kind() error {
	return e.kind
}

// Link errors.
var (
	ErrOriginalURLRequired = newError(ErrValidation, "Original URL error")
	ErrLinkNotFound        = newError(ErrNotFound, "URL not found")
	ErrCodeSpaceExhausted  = newError(ErrInternal, "could not allocate a unique short code")
)

// Account errors.
var (
	ErrNameRequired         = newError(ErrValidation, "Name is required")
	ErrEmailRequired        = newError(ErrValidation, "Email is required")
	ErrPasswordRequired     = newError(ErrValidation, "Password is required")
	ErrPasswordFieldsPair   = newError(ErrValidation, "Both current and new password are required to change password")
	ErrEmailTaken           = newError(ErrConflict, "Email already registered")
	ErrAccountNotFound      = newError(ErrNotFound, "Account not found. Please check your email or sign up.")
	ErrUserNotFound         = newError(ErrNotFound, "User not found")
	ErrWrongPassword        = newError(ErrInvalidCredentials, "Invalid email or password. Please try again.")
	ErrCurrentPasswordWrong = newError(ErrInvalidCredentials, "Current password is incorrect")
	ErrPasswordTooShort     = newError(ErrValidation, "New password must be at least 8 characters long")
	ErrPasswordNeedsLower   = newError(ErrValidation, "New password must contain at least one lowercase letter")
	ErrPasswordNeedsUpper   = newError(ErrValidation, "New password must contain at least one uppercase letter")
	ErrPasswordNeedsDigit   = newError(ErrValidation, "New password must contain at least one number")
)

// ErrStoreUnavailable is returned without touching the database while the
// store lifecycle reports it is down.
var ErrStoreUnavailable = newError(ErrInternal, "database unavailable")

// internalError wraps an unexpected failure so it matches ErrInternal
// while keeping the cause for logs.
type internalError struct {
	op  string
	err error
}

func (e *internalError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *internalError) Unwrap() error {
	return e.err
}

func (e *internalError) Is(target error) bool {
	return target == ErrInternal
}

func wrapInternal(op string, err error) error {
	return &internalError{op: op, err: err}
}
