package engine

import (
	"context"
	"fmt"

	"github.com/flowarts/pictograph/internal/geometry"
	"github.com/flowarts/pictograph/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"golang.org/x/sync/errgroup"
)

// Frame is the state of both props at one sampled beat.
type Frame struct {
	Beat  float64 `json:"beat"`
	State State   `json:"state"`
}

// SampleFrames computes framesPerBeat evenly spaced frames per beat, from
// beat 0 through the terminal beat inclusive. Frames are computed by up to
// workers goroutines; each calls StateAt, so nothing is shared between them.
func SampleFrames(ctx context.Context, seq core.Sequence, calc EndpointCalculator, proj geometry.Projection, framesPerBeat, workers int) ([]Frame, error) {
	if framesPerBeat < 1 {
		return nil, fmt.Errorf("framesPerBeat must be positive, got %d", framesPerBeat)
	}
	if err := seq.Validate(); err != nil {
		return nil, &SequenceError{Op: "sample frames", Index: -1, Err: err}
	}
	if workers < 1 {
		workers = 1
	}

	count := seq.Metadata.TotalBeats*framesPerBeat + 1
	frames := make([]Frame, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			beat := float64(i) / float64(framesPerBeat)
			st, err := StateAt(seq, beat, calc, proj)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = Frame{Beat: beat, State: st}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// TracePath returns the path travelled by one prop across frames.
func TracePath(frames []Frame, c core.PropColor) (geom.LineString, error) {
	points := make([]core.Position2D, len(frames))
	for i, f := range frames {
		points[i] = f.State.Prop(c).Position()
	}
	return geometry.Trace(points)
}
