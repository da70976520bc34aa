package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is matched by every *StateError.
	ErrInvalidState = errors.New("invalid quiz state")
	// ErrModelUnavailable wraps failures of a model call the turn cannot
	// proceed without.
	ErrModelUnavailable = errors.New("model unavailable")
)

// StateError reports which client-supplied field was rejected.
type StateError struct {
	Field  string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid quiz state: %s %s", e.Field, e.Reason)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}
