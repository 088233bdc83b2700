package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingStep is returned when no step exists at a computed index.
	ErrMissingStep = errors.New("missing step definition")
	// ErrNotInitialized is returned when the engine has no validated sequence.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrInvalidBeat is returned for NaN beat positions.
	ErrInvalidBeat = errors.New("invalid beat")
)

// SequenceError describes a malformed-sequence failure. Index is the
// literal element index involved, or -1 when the sequence shape is at fault.
type SequenceError struct {
	Op    string
	Index int
	Err   error
}

func (e *SequenceError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: element %d: %v", e.Op, e.Index, e.Err)
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}
