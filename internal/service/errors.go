package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every service. Handlers map these onto HTTP codes:
// NotFound → 404, ValidationError → 422, ConstraintViolation → 409,
// StorageError → 500.

// ErrNotFound marks a missing (or soft-deleted where liveness is required)
// item, shelf, system, user or movement.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// ValidationError reports the first violated request rule. No write has been
// attempted when one of these is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConstraintViolation is a commit-time invariant failure: the write was
// attempted, the transaction rolled back, and nothing was applied.
type ConstraintViolation struct {
	Msg string
}

func (e *ConstraintViolation) Error() string { return e.Msg }

// IsConstraint reports whether err is (or wraps) a ConstraintViolation.
func IsConstraint(err error) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv)
}

// StorageError wraps an underlying durable-write failure. Never swallowed:
// every repository error that is not a business rule surfaces as one of these.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError unless it already carries taxonomy type.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var cv *ConstraintViolation
	if errors.As(err, &cv) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
