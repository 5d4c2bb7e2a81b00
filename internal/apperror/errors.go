// Package apperror holds the failure signals shared by the stores, the
// workflows and the remote client.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrItemNotFound      = fmt.Errorf("item %w", ErrNotFound)
	ErrDuplicateName     = errors.New("name already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrExceedsAvailable  = errors.New("exceeds available stock")
	ErrAlreadyPresent    = errors.New("already present")
	ErrRemoteFailure     = errors.New("remote failure")
	ErrInFlight          = errors.New("operation already in flight")
)

type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type InsufficientStockError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s for %q: requested %d, available %d", ErrInsufficientStock, e.Item, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type ExceedsAvailableError struct {
	Item      string
	Requested int
	Available int
}

func (e *ExceedsAvailableError) Error() string {
	return fmt.Sprintf("%s for %q: requested %d, available %d", ErrExceedsAvailable, e.Item, e.Requested, e.Available)
}

func (e *ExceedsAvailableError) Unwrap() error { return ErrExceedsAvailable }

// RemoteError is a failed backend call. Status is zero for transport and
// decode failures.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", ErrRemoteFailure, e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrRemoteFailure, e.Op, msg)
}

func (e *RemoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRemoteFailure, e.Err}
	}
	return []error{ErrRemoteFailure}
}
