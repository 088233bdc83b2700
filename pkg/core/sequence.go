// pkg/core/sequence.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewElements is returned when a sequence has no animated beat.
	ErrTooFewElements = errors.New("sequence needs metadata, a start position and at least one beat")
	// ErrBeatCountMismatch is returned when total_beats disagrees with the number of beats.
	ErrBeatCountMismatch = errors.New("total_beats does not match the number of beats")
)

// PropAttributes is the symbolic description of one prop's motion over a step.
type PropAttributes struct {
	StartLoc   Position
	EndLoc     Position
	StartOri   Orientation
	EndOri     Orientation
	MotionType MotionType
	PropRotDir RotationDirection
	Turns      float64
}

// StepDefinition is one entry of a sequence after the metadata element.
type StepDefinition struct {
	Beat       int
	Letter     string
	LetterType string
	Blue       PropAttributes
	Red        PropAttributes
}

// Attributes returns the attributes of the prop with the given color.
func (s StepDefinition) Attributes(c PropColor) PropAttributes {
	if c == Red {
		return s.Red
	}
	return s.Blue
}

// SequenceMetadata is element 0 of a sequence literal.
type SequenceMetadata struct {
	Word       string
	Author     string
	TotalBeats int
}

// Sequence is a decoded sequence literal. Steps[0] is the start position
// (literal element 1); Steps[1:] are the animated beats.
type Sequence struct {
	Metadata SequenceMetadata
	Steps    []StepDefinition
}

// Len returns the element count of the literal form, metadata included.
func (s Sequence) Len() int {
	return len(s.Steps) + 1
}

// Element returns the step at literal index i (1-based past the metadata).
func (s Sequence) Element(i int) (StepDefinition, bool) {
	if i < 1 || i > len(s.Steps) {
		return StepDefinition{}, false
	}
	return s.Steps[i-1], true
}

// Validate checks the shape invariant total_beats == len(literal) - 2.
func (s Sequence) Validate() error {
	if s.Len() < 3 {
		return fmt.Errorf("%w: got %d elements", ErrTooFewElements, s.Len())
	}
	if s.Metadata.TotalBeats != s.Len()-2 {
		return fmt.Errorf("%w: total_beats=%d, beats=%d", ErrBeatCountMismatch, s.Metadata.TotalBeats, s.Len()-2)
	}
	return nil
}
