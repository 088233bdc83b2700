// Package placement derives the lookup key of a rendered arrow glyph's
// precomputed offset. Keys are tried as a cascade from most to least
// specific; the bare motion type is the guaranteed last resort.
package placement

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/flowarts/pictograph/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Context is the pictograph-level data a key depends on.
type Context struct {
	Letter     string
	BlueEndOri core.Orientation
	RedEndOri  core.Orientation
}

// ContextFromStep builds a Context from a step definition.
func ContextFromStep(step core.StepDefinition) Context {
	return Context{
		Letter:     step.Letter,
		BlueEndOri: step.Blue.EndOri,
		RedEndOri:  step.Red.EndOri,
	}
}

// EndOri returns the end orientation of the prop with the given color.
func (c Context) EndOri(color core.PropColor) core.Orientation {
	if color == core.Red {
		return c.RedEndOri
	}
	return c.BlueEndOri
}

// KeySet is the key space of a placement table.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the keys in sorted order.
func (s KeySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ClassifyLayer returns the layer of a pair of end orientations.
func ClassifyLayer(blue, red core.Orientation) Layer {
	switch {
	case blue.IsRadial() && red.IsRadial():
		return Layer1
	case !blue.IsRadial() && !red.IsRadial():
		return Layer2
	}
	return Layer3
}

func classifyVariant(o core.Orientation) Variant {
	if o.IsRadial() {
		return VariantRadial
	}
	return VariantNonRadial
}

// Generator builds candidate cascades and resolves them against a key set.
type Generator struct {
	logger *slog.Logger

	lookups metric.Int64Counter
	depth   metric.Int64Histogram
}

// NewGenerator creates a Generator. Uses the global OTel meter (no-op if
// not configured).
func NewGenerator(logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{logger: logger}

	m := meter()

	var err error
	g.lookups, err = m.Int64Counter(
		"placement.lookups",
		metric.WithDescription("Placement key lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lookups counter: %w", err)
	}

	g.depth, err = m.Int64Histogram(
		"placement.cascade.depth",
		metric.WithDescription("Position of the matched candidate in the cascade"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cascade depth histogram: %w", err)
	}

	return g, nil
}

// Candidates returns the ordered, deduplicated cascade for one prop.
func (g *Generator) Candidates(color core.PropColor, attrs core.PropAttributes, ctx Context) []Key {
	mt := attrs.MotionType
	layer := ClassifyLayer(ctx.BlueEndOri, ctx.RedEndOri)
	own := classifyVariant(ctx.EndOri(color))

	group, ok := LetterGroup(ctx.Letter)
	if !ok {
		g.logger.Debug("Letter has no group, using alpha", "letter", ctx.Letter)
		group = GroupAlpha
	}
	suffix := LetterSuffix(ctx.Letter)

	var keys []Key
	seen := make(map[Key]struct{})
	add := func(k Key) {
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	addBoth := func(k Key) {
		if k.Suffix != "" {
			add(k)
		}
		add(k.WithoutSuffix())
	}

	base := Key{Motion: mt, Layer: layer, Group: group, Suffix: suffix}
	add(base)
	add(base.WithoutSuffix())

	for _, l := range enumerationOrder(layer, own) {
		for _, gr := range groupOrder(group) {
			addBoth(Key{Motion: mt, Layer: l.layer, Variant: l.variant, Group: gr, Suffix: suffix})
		}
	}

	add(BareKey(mt))
	return keys
}

// GenerateKey returns the first candidate present in available, or the bare
// motion type when none matches.
func (g *Generator) GenerateKey(color core.PropColor, attrs core.PropAttributes, ctx Context, available KeySet) string {
	candidates := g.Candidates(color, attrs, ctx)
	motionAttr := attribute.String("motion", attrs.MotionType.String())

	for i, k := range candidates {
		s := k.String()
		if available.Has(s) {
			g.record(motionAttr, true, i)
			return s
		}
	}

	g.record(motionAttr, false, len(candidates))
	g.logger.Debug("No placement key matched, using motion type",
		"motion", attrs.MotionType.String(),
		"letter", ctx.Letter,
		"candidates", len(candidates))
	return BareKey(attrs.MotionType).String()
}

func (g *Generator) record(motionAttr attribute.KeyValue, matched bool, depth int) {
	attrs := metric.WithAttributes(motionAttr, attribute.Bool("matched", matched))
	g.lookups.Add(context.Background(), 1, attrs)
	g.depth.Record(context.Background(), int64(depth), attrs)
}

type layerVariant struct {
	layer   Layer
	variant Variant
}

// enumerationOrder lists every layer/variant bucket, the prop's own bucket
// first.
func enumerationOrder(layer Layer, own Variant) []layerVariant {
	all := []layerVariant{
		{Layer1, VariantNone},
		{Layer2, VariantNone},
		{Layer3, own},
		{Layer3, otherVariant(own)},
	}

	first := layerVariant{layer, VariantNone}
	if layer == Layer3 {
		first = layerVariant{Layer3, own}
	}

	ordered := []layerVariant{first}
	for _, lv := range all {
		if lv != first {
			ordered = append(ordered, lv)
		}
	}
	return ordered
}

func otherVariant(v Variant) Variant {
	if v == VariantRadial {
		return VariantNonRadial
	}
	return VariantRadial
}

func groupOrder(own Group) []Group {
	ordered := []Group{own}
	for _, g := range groups {
		if g != own {
			ordered = append(ordered, g)
		}
	}
	return ordered
}
