// Package geometry holds the angle primitives shared by the motion
// calculator and the interpolation engine, and the projection of
// center-path angles onto the rendering surface.
package geometry

import (
	"math"

	"github.com/flowarts/pictograph/pkg/core"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// PositionAngle maps a grid position to its center-path angle.
// Only the cardinals carry angles; any other position maps to 0.
func PositionAngle(p core.Position) float64 {
	switch p {
	case core.PositionE:
		return 0
	case core.PositionS:
		return math.Pi / 2
	case core.PositionW:
		return math.Pi
	case core.PositionN:
		return -math.Pi / 2
	}
	return 0
}

// OrientationAngle resolves an orientation against a center-path angle.
// Compass letters are absolute, in faces the grid center, out faces away.
// Anything else behaves as in.
func OrientationAngle(o core.Orientation, center float64) float64 {
	if p, ok := o.Compass(); ok {
		return PositionAngle(p)
	}
	if o == core.OrientationOut {
		return NormalizePositive(center)
	}
	return NormalizePositive(center + math.Pi)
}

// NormalizePositive wraps a into [0, 2π).
func NormalizePositive(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod of a tiny negative value can round back up to 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// NormalizeSigned wraps a into (-π, π].
func NormalizeSigned(a float64) float64 {
	a = NormalizePositive(a)
	if a > math.Pi {
		a -= TwoPi
	}
	return a
}

// LerpAngle interpolates from a to b along the shortest signed arc.
func LerpAngle(a, b, t float64) float64 {
	d := NormalizeSigned(b - a)
	return NormalizePositive(a + d*t)
}
