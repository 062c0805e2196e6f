// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., tag name taken in a profile).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed, empty or out-of-range arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyPersisted indicates an attempt to persist a tag that already has a durable id.
	ErrAlreadyPersisted = errors.New("already persisted")

	// ErrStorage indicates a failure of the underlying settings store.
	ErrStorage = errors.New("storage error")
)

// InputError names the argument that failed validation. It never carries the value itself.
type InputError struct {
	Field  string
	Reason string
}

// InvalidInput builds an *InputError for field.
func InvalidInput(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// StorageError wraps a backend failure with the store operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

// Storage wraps err as a *StorageError unless it is nil or already a domain sentinel.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the driver error.
func (e *StorageError) Unwrap() error { return e.Err }

// Is reports ErrStorage membership.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
