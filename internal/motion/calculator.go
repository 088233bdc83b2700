// Package motion derives the end-of-step center-path and staff angles of a
// prop from its symbolic attributes.
package motion

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/flowarts/pictograph/internal/geometry"
	"github.com/flowarts/pictograph/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultStaticThreshold is the minimum staff change, in radians, a static
// motion must see before its end orientation replaces the start staff angle.
// It is a tunable, not a derived value.
const DefaultStaticThreshold = 0.1

// Endpoints holds the start and target angles of one prop over one step.
type Endpoints struct {
	StartCenter  float64
	StartStaff   float64
	TargetCenter float64
	TargetStaff  float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithStaticThreshold overrides DefaultStaticThreshold.
func WithStaticThreshold(eps float64) Option {
	return func(c *Calculator) {
		c.staticThreshold = eps
	}
}

// Calculator applies the per-motion-type rules. It keeps no per-call state
// and is safe for concurrent use.
type Calculator struct {
	logger          *slog.Logger
	staticThreshold float64

	fallbacks metric.Int64Counter
}

// NewCalculator creates a Calculator. Uses the global OTel meter (no-op if
// not configured).
func NewCalculator(logger *slog.Logger, opts ...Option) (*Calculator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Calculator{
		logger:          logger,
		staticThreshold: DefaultStaticThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	c.fallbacks, err = meter().Int64Counter(
		"motion.fallbacks",
		metric.WithDescription("Motions resolved through a fallback rule"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fallbacks counter: %w", err)
	}

	return c, nil
}

// StaticThreshold returns the configured static-motion threshold.
func (c *Calculator) StaticThreshold() float64 {
	return c.staticThreshold
}

// Endpoints computes the four angles for attrs.
func (c *Calculator) Endpoints(attrs core.PropAttributes) Endpoints {
	startCenter := geometry.PositionAngle(attrs.StartLoc)
	startStaff := geometry.OrientationAngle(attrs.StartOri, startCenter)
	targetCenter := geometry.PositionAngle(attrs.EndLoc)

	targetStaff := c.targetStaff(attrs, startCenter, startStaff, targetCenter)

	if overridable(attrs.MotionType) && attrs.EndOri.IsExplicit() {
		targetStaff = geometry.OrientationAngle(attrs.EndOri, targetCenter)
	}

	return Endpoints{
		StartCenter:  startCenter,
		StartStaff:   startStaff,
		TargetCenter: targetCenter,
		TargetStaff:  targetStaff,
	}
}

func (c *Calculator) targetStaff(attrs core.PropAttributes, startCenter, startStaff, targetCenter float64) float64 {
	delta := geometry.NormalizeSigned(targetCenter - startCenter)
	spin := math.Pi * attrs.Turns * attrs.PropRotDir.Sign()

	switch attrs.MotionType {
	case core.MotionPro, core.MotionFloat:
		if attrs.Turns == 0 {
			return geometry.NormalizePositive(targetCenter + math.Pi)
		}
		return geometry.NormalizePositive(startStaff + delta + spin)
	case core.MotionAnti:
		return geometry.NormalizePositive(startStaff - delta + spin)
	case core.MotionStatic:
		candidate := geometry.OrientationAngle(attrs.EndOri, targetCenter)
		if math.Abs(geometry.NormalizeSigned(candidate-startStaff)) > c.staticThreshold {
			return candidate
		}
		return startStaff
	case core.MotionDash:
		switch attrs.EndOri {
		case core.OrientationIn:
			return geometry.NormalizePositive(targetCenter + math.Pi)
		case core.OrientationOut:
			return geometry.NormalizePositive(targetCenter)
		}
		return startStaff
	case core.MotionUnknown:
	}

	c.logger.Warn("Unknown motion type, keeping start orientation",
		"motionType", attrs.MotionType.String(),
		"startLoc", attrs.StartLoc.String(),
		"endLoc", attrs.EndLoc.String())
	c.recordFallback("unknown_motion")
	return startStaff
}

// overridable reports whether an explicit end orientation wins over the
// computed staff angle. Pro and float keep their own rule; unknown motions
// keep the start orientation untouched.
func overridable(m core.MotionType) bool {
	switch m {
	case core.MotionAnti, core.MotionStatic, core.MotionDash:
		return true
	case core.MotionPro, core.MotionFloat, core.MotionUnknown:
		return false
	}
	return false
}

func (c *Calculator) recordFallback(reason string) {
	c.fallbacks.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}
