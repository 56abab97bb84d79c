// Package service provides the validation and orchestration layer between
// the presentation surface and the stores. Each service owns an in-memory
// mirror of its entity space, patched incrementally on every successful
// mutation and replaced wholesale only by the All loads.
package service

import (
	"errors"
	"fmt"
)

// Service errors are typed per failure reason so callers can branch with
// errors.Is: an inline field error for a duplicate name needs different
// handling than a storage outage.
var (
	// ErrNilInput reports a nil entity argument.
	ErrNilInput = errors.New("input is nil")
	// ErrEmptyName reports an empty entity name.
	ErrEmptyName = errors.New("name is empty")
	// ErrEmptyDate reports a missing transaction date.
	ErrEmptyDate = errors.New("date is empty")
	// ErrInvalidID reports a negative entity id.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateEntry reports a category name that already exists in its space.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrNotFound reports an entity that is no longer stored.
	ErrNotFound = errors.New("entry not found")
	// ErrRequestFailed wraps any underlying storage failure.
	ErrRequestFailed = errors.New("storage request failed")
)

// requestFailed translates a storage failure, keeping the underlying message
// for diagnostics. Storage errors never propagate raw past the service.
func requestFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRequestFailed, op, err)
}
