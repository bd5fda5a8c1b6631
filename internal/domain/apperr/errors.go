// Package apperr holds the error taxonomy shared by every domain service.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable wraps any failed call to the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrPartialCommit marks an atomic write whose commit could not be confirmed.
	ErrPartialCommit = errors.New("commit outcome unknown")
	// ErrDecode marks a stored record that failed validation on read.
	ErrDecode = errors.New("malformed stored record")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Unavailable wraps a store error so callers can match ErrStoreUnavailable
// while keeping the driver error in the chain.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func Decode(kind, id, reason string) error {
	return fmt.Errorf("%w: %s %q: %s", ErrDecode, kind, id, reason)
}
