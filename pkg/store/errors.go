package store

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks at the presentation boundary.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrCorrupt    = errors.New("corrupt task store")
)

// ValidationError reports rejected input. The mutation was not performed.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an index outside the current bounds.
type NotFoundError struct {
	What  string // "task" or "checklist item"
	Index int
	Len   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found (have %d)", e.What, e.Index, e.Len)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CorruptStoreError reports persisted bytes that do not decode to a task
// collection. It is never turned into an empty collection.
type CorruptStoreError struct {
	Source string
	Err    error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt task store %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// Is matches ErrCorrupt.
func (e *CorruptStoreError) Is(target error) bool {
	return target == ErrCorrupt
}
