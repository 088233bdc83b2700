package engine

import (
	"fmt"
	"math"

	"github.com/flowarts/pictograph/internal/geometry"
	"github.com/flowarts/pictograph/internal/motion"
	"github.com/flowarts/pictograph/pkg/core"
)

// EndpointCalculator derives the angles of a prop over one step.
type EndpointCalculator interface {
	Endpoints(attrs core.PropAttributes) motion.Endpoints
}

// PropState is the interpolated state of one prop. X and Y follow from
// CenterPathAngle and are only written by place.
type PropState struct {
	CenterPathAngle    float64 `json:"centerPathAngle"`
	StaffRotationAngle float64 `json:"staffRotationAngle"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
}

func (s *PropState) place(center, staff float64, proj geometry.Projection) {
	s.CenterPathAngle = geometry.NormalizePositive(center)
	s.StaffRotationAngle = geometry.NormalizePositive(staff)
	s.X, s.Y = proj.Project(s.CenterPathAngle)
}

// Position returns the projected coordinates.
func (s PropState) Position() core.Position2D {
	return core.Position2D{X: s.X, Y: s.Y}
}

// State holds both props. It is a plain value; copying it is a snapshot.
type State struct {
	Blue PropState `json:"blue"`
	Red  PropState `json:"red"`
}

// Prop returns the state of the prop with the given color.
func (s State) Prop(c core.PropColor) PropState {
	if c == core.Red {
		return s.Red
	}
	return s.Blue
}

func (s *State) prop(c core.PropColor) *PropState {
	if c == core.Red {
		return &s.Red
	}
	return &s.Blue
}

var colors = []core.PropColor{core.Blue, core.Red}

// InitialState validates seq and seeds both props from the start angles of
// the start-position step.
func InitialState(seq core.Sequence, calc EndpointCalculator, proj geometry.Projection) (State, error) {
	if err := seq.Validate(); err != nil {
		return State{}, &SequenceError{Op: "initialize", Index: -1, Err: err}
	}

	start, ok := seq.Element(1)
	if !ok {
		return State{}, &SequenceError{Op: "initialize", Index: 1, Err: ErrMissingStep}
	}

	var st State
	for _, c := range colors {
		ep := calc.Endpoints(start.Attributes(c))
		st.prop(c).place(ep.StartCenter, ep.StartStaff, proj)
	}
	return st, nil
}

// StateAt computes both props at a continuous beat position. The beat is
// clamped into [0, total_beats]; the terminal beat resolves against the last
// step with t = 1. Every call recomputes from the step definition.
func StateAt(seq core.Sequence, beat float64, calc EndpointCalculator, proj geometry.Projection) (State, error) {
	if math.IsNaN(beat) {
		return State{}, fmt.Errorf("%w: NaN", ErrInvalidBeat)
	}
	if err := seq.Validate(); err != nil {
		return State{}, &SequenceError{Op: "calculate state", Index: -1, Err: err}
	}

	stepIndex, t := locate(beat, seq.Metadata.TotalBeats)

	step, ok := seq.Element(stepIndex + 2)
	if !ok {
		return State{}, &SequenceError{Op: "calculate state", Index: stepIndex + 2, Err: ErrMissingStep}
	}

	var st State
	for _, c := range colors {
		ep := calc.Endpoints(step.Attributes(c))
		st.prop(c).place(
			geometry.LerpAngle(ep.StartCenter, ep.TargetCenter, t),
			geometry.LerpAngle(ep.StartStaff, ep.TargetStaff, t),
			proj,
		)
	}
	return st, nil
}

// locate splits a beat into a step index and an interpolation factor.
func locate(beat float64, totalBeats int) (int, float64) {
	total := float64(totalBeats)
	beat = math.Max(0, math.Min(beat, total))

	if beat == total {
		return totalBeats - 1, 1
	}
	stepIndex := int(math.Floor(beat))
	return stepIndex, beat - float64(stepIndex)
}
