package blog

import "errors"

var (
	// ErrValidation indicates a required text field is missing or blank
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced post or author doesn't exist, or a listing matched nothing
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is not the author of the resource
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates a protected operation was called without an identity
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error pairs a taxonomy sentinel with the message shown to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error { return &Error{Kind: kind, Message: msg} }

func Validation(msg string) error { return newError(ErrValidation, msg) }

func NotFound(msg string) error { return newError(ErrNotFound, msg) }

func Forbidden(msg string) error { return newError(ErrForbidden, msg) }

func Unauthenticated(msg string) error { return newError(ErrUnauthenticated, msg) }

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsForbidden checks if an error is an ownership failure
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnauthenticated checks if an error is a missing-identity error
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }
