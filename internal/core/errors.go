package core

import (
	"errors"
	"fmt"
)

// Validation errors: rejected before any extraction or persistence happens.
var (
	ErrEmptyEntry   = errors.New("journal entry cannot be empty")
	ErrEmptyMessage = errors.New("chat message cannot be empty")
	ErrEmptyAction  = errors.New("action cannot be empty")
)

// DependencyError wraps a failure of the generative-response collaborator.
// The turn is not persisted when this is returned; Fallback is a safe
// message the presentation layer may show instead of a bot response.
type DependencyError struct {
	Fallback string
	Err      error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("generative dependency failed: %v", e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
