// ABOUTME: Error values shared by all storage backends.
// ABOUTME: Driver failures are wrapped in StorageError; lookups miss with ErrNotFound.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record or exercise does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateExercise is returned when an exercise name is already used.
	ErrDuplicateExercise = errors.New("duplicate exercise name")
	// ErrReadOnly is returned for writes while another process holds the store.
	ErrReadOnly = errors.New("database is locked by another process (MCP server?)")
)

// StorageError wraps a backend failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// wrapErr tags backend errors with op, passing domain errors through.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateExercise) || errors.Is(err, ErrReadOnly) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
