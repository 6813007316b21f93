package services

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no valid session was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means the caller does not own the resource.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTimeout means the datastore did not answer in time; the call may be retried.
	ErrTimeout = errors.New("datastore timeout")
	// ErrEmailTaken means signup used an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials means the email or password did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// storeErr tags datastore deadline failures with ErrTimeout and leaves
// everything else wrapped as is.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
