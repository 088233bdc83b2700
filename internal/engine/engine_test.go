package engine

import (
	"context"
	"math"
	"testing"

	"github.com/flowarts/pictograph/internal/geometry"
	"github.com/flowarts/pictograph/internal/motion"
	"github.com/flowarts/pictograph/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func newTestCalculator(t *testing.T) *motion.Calculator {
	t.Helper()
	c, err := motion.NewCalculator(nil)
	require.NoError(t, err)
	return c
}

func staticAt(loc core.Position, ori core.Orientation) core.PropAttributes {
	return core.PropAttributes{
		StartLoc:   loc,
		EndLoc:     loc,
		StartOri:   ori,
		EndOri:     ori,
		MotionType: core.MotionStatic,
		PropRotDir: core.RotationNone,
	}
}

// scenarioSequence is a one-beat sequence: blue pro N -> E with one cw turn,
// red static at S.
func scenarioSequence() core.Sequence {
	return core.Sequence{
		Metadata: core.SequenceMetadata{Word: "T", Author: "x", TotalBeats: 1},
		Steps: []core.StepDefinition{
			{
				Beat:   0,
				Letter: "α",
				Blue:   staticAt(core.PositionN, core.OrientationIn),
				Red:    staticAt(core.PositionS, core.OrientationIn),
			},
			{
				Beat:   1,
				Letter: "A",
				Blue: core.PropAttributes{
					StartLoc:   core.PositionN,
					EndLoc:     core.PositionE,
					StartOri:   core.OrientationIn,
					EndOri:     core.OrientationIn,
					MotionType: core.MotionPro,
					PropRotDir: core.RotationCW,
					Turns:      1,
				},
				Red: staticAt(core.PositionS, core.OrientationIn),
			},
		},
	}
}

func twoBeatSequence() core.Sequence {
	seq := scenarioSequence()
	seq.Metadata.TotalBeats = 2
	seq.Steps = append(seq.Steps, core.StepDefinition{
		Beat:   2,
		Letter: "B",
		Blue: core.PropAttributes{
			StartLoc:   core.PositionE,
			EndLoc:     core.PositionS,
			StartOri:   core.OrientationIn,
			EndOri:     core.OrientationOut,
			MotionType: core.MotionAnti,
			PropRotDir: core.RotationCCW,
			Turns:      0,
		},
		Red: staticAt(core.PositionS, core.OrientationIn),
	})
	return seq
}

func TestEngine_Initialize(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
	require.NoError(t, e.Initialize(scenarioSequence()))

	st := e.State()
	assert.InDelta(t, 3*math.Pi/2, st.Blue.CenterPathAngle, tolerance)
	assert.InDelta(t, math.Pi/2, st.Blue.StaffRotationAngle, tolerance)
	assert.InDelta(t, 475, st.Blue.X, tolerance)
	assert.InDelta(t, 475-151.5, st.Blue.Y, tolerance)

	assert.InDelta(t, math.Pi/2, st.Red.CenterPathAngle, tolerance)
	assert.InDelta(t, 475+151.5, st.Red.Y, tolerance)
	assert.Equal(t, 1, e.TotalBeats())
}

func TestEngine_InitializeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*core.Sequence)
		wantErr error
	}{
		{
			name:    "beat count mismatch",
			mutate:  func(s *core.Sequence) { s.Metadata.TotalBeats = 4 },
			wantErr: core.ErrBeatCountMismatch,
		},
		{
			name: "too few elements",
			mutate: func(s *core.Sequence) {
				s.Steps = s.Steps[:1]
				s.Metadata.TotalBeats = 0
			},
			wantErr: core.ErrTooFewElements,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
			seq := scenarioSequence()
			tt.mutate(&seq)

			err := e.Initialize(seq)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var seqErr *SequenceError
			require.ErrorAs(t, err, &seqErr)
			assert.Equal(t, "initialize", seqErr.Op)

			_, err = e.CalculateState(0.5)
			assert.ErrorIs(t, err, ErrNotInitialized)
			assert.Equal(t, State{}, e.State())
		})
	}
}

func TestEngine_InitializeFailureUnloads(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
	require.NoError(t, e.Initialize(scenarioSequence()))

	bad := scenarioSequence()
	bad.Metadata.TotalBeats = 7
	require.Error(t, e.Initialize(bad))

	_, loaded := e.Sequence()
	assert.False(t, loaded)
	_, err := e.Reset()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEngine_CalculateState_Midpoint(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
	require.NoError(t, e.Initialize(scenarioSequence()))

	st, err := e.CalculateState(0.5)
	require.NoError(t, err)

	want := geometry.LerpAngle(geometry.PositionAngle(core.PositionN), geometry.PositionAngle(core.PositionE), 0.5)
	assert.Equal(t, want, st.Blue.CenterPathAngle)

	x, y := geometry.DefaultProjection.Project(want)
	assert.InDelta(t, x, st.Blue.X, tolerance)
	assert.InDelta(t, y, st.Blue.Y, tolerance)
	assert.Equal(t, st, e.State())
}

func TestEngine_CalculateState_TerminalBeat(t *testing.T) {
	calc := newTestCalculator(t)
	e := New(calc, geometry.DefaultProjection, nil)
	seq := scenarioSequence()
	require.NoError(t, e.Initialize(seq))

	st, err := e.CalculateState(1.0)
	require.NoError(t, err)

	ep := calc.Endpoints(seq.Steps[1].Blue)
	assert.InDelta(t, 0, geometry.NormalizeSigned(st.Blue.CenterPathAngle-ep.TargetCenter), tolerance)
	assert.InDelta(t, 0, geometry.NormalizeSigned(st.Blue.StaffRotationAngle-ep.TargetStaff), tolerance)
}

func TestEngine_CalculateState_Clamps(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
	require.NoError(t, e.Initialize(twoBeatSequence()))

	low, err := e.CalculateState(-3)
	require.NoError(t, err)
	zero, err := e.CalculateState(0)
	require.NoError(t, err)
	assert.Equal(t, zero, low)

	high, err := e.CalculateState(99)
	require.NoError(t, err)
	end, err := e.CalculateState(2)
	require.NoError(t, err)
	assert.Equal(t, end, high)

	inf, err := e.CalculateState(math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, end, inf)

	_, err = e.CalculateState(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidBeat)
}

func TestEngine_CalculateState_StepBoundary(t *testing.T) {
	calc := newTestCalculator(t)
	e := New(calc, geometry.DefaultProjection, nil)
	seq := twoBeatSequence()
	require.NoError(t, e.Initialize(seq))

	// beat 1 is the start of the second beat, not the end of the first
	st, err := e.CalculateState(1)
	require.NoError(t, err)
	ep := calc.Endpoints(seq.Steps[2].Blue)
	assert.InDelta(t, geometry.NormalizePositive(ep.StartCenter), st.Blue.CenterPathAngle, tolerance)
	assert.InDelta(t, geometry.NormalizePositive(ep.StartStaff), st.Blue.StaffRotationAngle, tolerance)
}

func TestEngine_CalculateState_Idempotent(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
	require.NoError(t, e.Initialize(twoBeatSequence()))

	first, err := e.CalculateState(1.3)
	require.NoError(t, err)
	for _, beat := range []float64{0.2, 1.9, 0.7} {
		_, err := e.CalculateState(beat)
		require.NoError(t, err)
	}
	again, err := e.CalculateState(1.3)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestEngine_Reset(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)
	require.NoError(t, e.Initialize(scenarioSequence()))
	initial := e.State()

	_, err := e.CalculateState(0.8)
	require.NoError(t, err)
	assert.NotEqual(t, initial, e.State())

	st, err := e.Reset()
	require.NoError(t, err)
	assert.Equal(t, initial, st)
	assert.Equal(t, initial, e.State())
}

func TestEngine_NotInitialized(t *testing.T) {
	e := New(newTestCalculator(t), geometry.DefaultProjection, nil)

	_, err := e.CalculateState(0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = e.Reset()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Equal(t, 0, e.TotalBeats())
}

func TestEngine_InstancesDoNotAlias(t *testing.T) {
	calc := newTestCalculator(t)
	preview := New(calc, geometry.DefaultProjection, nil)
	playback := New(calc, geometry.DefaultProjection, nil)
	require.NoError(t, preview.Initialize(scenarioSequence()))
	require.NoError(t, playback.Initialize(scenarioSequence()))

	_, err := preview.CalculateState(0.9)
	require.NoError(t, err)

	initial, err := InitialState(scenarioSequence(), calc, geometry.DefaultProjection)
	require.NoError(t, err)
	assert.Equal(t, initial, playback.State())
}

func TestStateAt_StatesStayNormalized(t *testing.T) {
	calc := newTestCalculator(t)
	seq := twoBeatSequence()

	for beat := 0.0; beat <= 2; beat += 0.05 {
		st, err := StateAt(seq, beat, calc, geometry.DefaultProjection)
		require.NoError(t, err)
		for _, p := range []PropState{st.Blue, st.Red} {
			assert.GreaterOrEqual(t, p.CenterPathAngle, 0.0)
			assert.Less(t, p.CenterPathAngle, geometry.TwoPi)
			assert.GreaterOrEqual(t, p.StaffRotationAngle, 0.0)
			assert.Less(t, p.StaffRotationAngle, geometry.TwoPi)
		}
	}
}

func TestSequenceError_Message(t *testing.T) {
	err := &SequenceError{Op: "calculate state", Index: 4, Err: ErrMissingStep}
	assert.Equal(t, "calculate state: element 4: missing step definition", err.Error())

	err = &SequenceError{Op: "initialize", Index: -1, Err: core.ErrTooFewElements}
	assert.Contains(t, err.Error(), "initialize: ")
}

func TestSampleFrames(t *testing.T) {
	calc := newTestCalculator(t)
	seq := twoBeatSequence()

	frames, err := SampleFrames(context.Background(), seq, calc, geometry.DefaultProjection, 4, 3)
	require.NoError(t, err)
	require.Len(t, frames, 9)

	for i, f := range frames {
		assert.InDelta(t, float64(i)/4, f.Beat, tolerance)
		want, err := StateAt(seq, f.Beat, calc, geometry.DefaultProjection)
		require.NoError(t, err)
		assert.Equal(t, want, f.State)
	}

	_, err = SampleFrames(context.Background(), seq, calc, geometry.DefaultProjection, 0, 1)
	require.Error(t, err)

	bad := seq
	bad.Metadata.TotalBeats = 1
	_, err = SampleFrames(context.Background(), bad, calc, geometry.DefaultProjection, 2, 1)
	assert.ErrorIs(t, err, core.ErrBeatCountMismatch)
}

func TestSampleFrames_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SampleFrames(ctx, twoBeatSequence(), newTestCalculator(t), geometry.DefaultProjection, 10, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTracePath(t *testing.T) {
	calc := newTestCalculator(t)
	frames, err := SampleFrames(context.Background(), scenarioSequence(), calc, geometry.DefaultProjection, 8, 2)
	require.NoError(t, err)

	blue, err := TracePath(frames, core.Blue)
	require.NoError(t, err)
	assert.Equal(t, len(frames), blue.Coordinates().Length())
	// quarter arc N -> E approximated by chords
	assert.InDelta(t, math.Pi/2*151.5, blue.Length(), 1)

	red, err := TracePath(frames, core.Red)
	require.NoError(t, err)
	assert.InDelta(t, 0, red.Length(), tolerance)
}
