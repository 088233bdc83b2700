// Package engine interpolates the two props of a pictograph sequence at
// continuous beat positions.
package engine

import (
	"log/slog"

	"github.com/flowarts/pictograph/internal/geometry"
	"github.com/flowarts/pictograph/pkg/core"
)

// Engine owns one loaded sequence and the current state of both props.
// It is not safe for concurrent use; hand State() snapshots to other
// goroutines instead.
type Engine struct {
	calc   EndpointCalculator
	proj   geometry.Projection
	logger *slog.Logger

	seq    core.Sequence
	loaded bool
	state  State
}

// New creates an Engine with no sequence loaded.
func New(calc EndpointCalculator, proj geometry.Projection, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		calc:   calc,
		proj:   proj,
		logger: logger,
	}
}

// Initialize validates seq and seeds both props from its start position.
// On failure the engine is left unloaded.
func (e *Engine) Initialize(seq core.Sequence) error {
	st, err := InitialState(seq, e.calc, e.proj)
	if err != nil {
		e.loaded = false
		e.seq = core.Sequence{}
		e.state = State{}
		e.logger.Error("Failed to initialize sequence", "word", seq.Metadata.Word, "error", err)
		return err
	}

	e.seq = seq
	e.loaded = true
	e.state = st
	e.logger.Debug("Sequence initialized",
		"word", seq.Metadata.Word,
		"author", seq.Metadata.Author,
		"totalBeats", seq.Metadata.TotalBeats)
	return nil
}

// CalculateState moves both props to beat and returns the new state.
func (e *Engine) CalculateState(beat float64) (State, error) {
	if !e.loaded {
		return State{}, ErrNotInitialized
	}
	st, err := StateAt(e.seq, beat, e.calc, e.proj)
	if err != nil {
		return State{}, err
	}
	e.state = st
	return st, nil
}

// Reset re-initializes against the loaded sequence.
func (e *Engine) Reset() (State, error) {
	if !e.loaded {
		return State{}, ErrNotInitialized
	}
	if err := e.Initialize(e.seq); err != nil {
		return State{}, err
	}
	return e.state, nil
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	return e.state
}

// Sequence returns the loaded sequence and whether one is loaded.
func (e *Engine) Sequence() (core.Sequence, bool) {
	return e.seq, e.loaded
}

// TotalBeats returns the beat count of the loaded sequence, 0 if none.
func (e *Engine) TotalBeats() int {
	if !e.loaded {
		return 0
	}
	return e.seq.Metadata.TotalBeats
}
