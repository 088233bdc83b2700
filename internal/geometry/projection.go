package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/flowarts/pictograph/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidProjection is returned when a projection has a non-positive dimension.
var ErrInvalidProjection = errors.New("invalid projection")

// Projection maps center-path angles onto the rendering surface. All
// renderers sharing a surface must use identical values.
type Projection struct {
	ViewportWidth  float64 `json:"width" mapstructure:"width"`
	ViewportHeight float64 `json:"height" mapstructure:"height"`
	Radius         float64 `json:"radius" mapstructure:"radius"`
}

// DefaultProjection is the reference 950x950 grid.
var DefaultProjection = Projection{
	ViewportWidth:  950,
	ViewportHeight: 950,
	Radius:         151.5,
}

// Validate rejects non-positive dimensions.
func (p Projection) Validate() error {
	if p.ViewportWidth <= 0 || p.ViewportHeight <= 0 || p.Radius <= 0 {
		return fmt.Errorf("%w: %.1fx%.1f radius %.1f", ErrInvalidProjection, p.ViewportWidth, p.ViewportHeight, p.Radius)
	}
	return nil
}

// Center returns the grid center at the viewport midpoint.
func (p Projection) Center() (x, y float64) {
	return p.ViewportWidth / 2, p.ViewportHeight / 2
}

// Project returns the surface coordinates of a center-path angle.
func (p Projection) Project(angle float64) (x, y float64) {
	cx, cy := p.Center()
	return cx + p.Radius*math.Cos(angle), cy + p.Radius*math.Sin(angle)
}

// Point returns the projected angle as a geom.Point.
func (p Projection) Point(angle float64) (geom.Point, error) {
	x, y := p.Project(angle)
	pt, err := geom.XY{X: x, Y: y}.AsPoint()
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to build point for angle %v: %w", angle, err)
	}
	return pt, nil
}

// Trace builds a polyline through sampled prop positions. A prop that never
// leaves its start yields a zero-length line rather than an error.
func Trace(points []core.Position2D) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, fmt.Errorf("trace must have at least 2 points, got %d", len(points))
	}

	flatCoords := make([]float64, 0, len(points)*2)
	for i, pt := range points {
		if !finite(pt.X) || !finite(pt.Y) {
			return geom.LineString{}, fmt.Errorf("trace point %d is not finite: (%v, %v)", i, pt.X, pt.Y)
		}
		flatCoords = append(flatCoords, pt.X, pt.Y)
	}

	// coordinates are checked above; the distinct-point rule is skipped so
	// stationary props still trace
	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls, err := geom.NewLineString(seq, geom.DisableAllValidations)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("failed to build trace: %w", err)
	}
	return ls, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
