package service

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a service operation that the
// caller can act on wraps exactly one of these.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrRateLimited = errors.New("rate limited")
	ErrDelivery    = errors.New("delivery failed")
	ErrInvalidCode = errors.New("incorrect or expired verification code")
	ErrAuth        = errors.New("authentication failed")
)

var (
	ErrEmailAlreadyRegistered = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUsernameTaken          = fmt.Errorf("%w: username taken", ErrConflict)
	ErrTooManyCodes           = fmt.Errorf("%w: too many verification codes requested", ErrRateLimited)
	ErrDeliveryFailed         = fmt.Errorf("%w: verification email not sent", ErrDelivery)
	ErrNotRegistered          = fmt.Errorf("%w: not registered or not verified", ErrAuth)
	ErrWrongPassword          = fmt.Errorf("%w: wrong password", ErrAuth)

	ErrUserNotFound = errors.New("user not found")
)

// ValidationError describes malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
