package placement

import (
	"strings"

	"github.com/flowarts/pictograph/pkg/core"
)

// Layer classifies the end orientations of both props.
type Layer int

const (
	Layer1 Layer = iota + 1 // both radial
	Layer2                  // both non-radial
	Layer3                  // mixed
)

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "layer1"
	case Layer2:
		return "layer2"
	case Layer3:
		return "layer3"
	}
	return ""
}

// Variant refines Layer3 by the orientation class of the keyed prop.
type Variant int

const (
	VariantNone Variant = iota
	VariantRadial
	VariantNonRadial
)

func (v Variant) String() string {
	switch v {
	case VariantRadial:
		return "radial"
	case VariantNonRadial:
		return "nonradial"
	case VariantNone:
	}
	return ""
}

// Group is the letter group of the owning pictograph.
type Group int

const (
	GroupAlpha Group = iota + 1
	GroupBeta
	GroupGamma
)

var groups = []Group{GroupAlpha, GroupBeta, GroupGamma}

func (g Group) String() string {
	switch g {
	case GroupAlpha:
		return "alpha"
	case GroupBeta:
		return "beta"
	case GroupGamma:
		return "gamma"
	}
	return ""
}

// Suffix is the letter part of a key: "_A" or "_W_dash". The zero value
// means no suffix.
type Suffix string

// LetterSuffix builds the suffix for a letter. Dash-suffixed letters drop
// their trailing "-" and gain "_dash".
func LetterSuffix(letter string) Suffix {
	if letter == "" {
		return ""
	}
	if isDashLetter(letter) {
		return Suffix("_" + strings.TrimSuffix(letter, "-") + "_dash")
	}
	return Suffix("_" + letter)
}

// Key is one placement-table key. A Key with no Layer renders as the bare
// motion type.
type Key struct {
	Motion  core.MotionType
	Layer   Layer
	Variant Variant
	Group   Group
	Suffix  Suffix
}

// BareKey is the guaranteed fallback key for a motion type.
func BareKey(m core.MotionType) Key {
	return Key{Motion: m}
}

// IsBare reports whether k is the bare motion-type key.
func (k Key) IsBare() bool {
	return k.Layer == 0
}

// WithoutSuffix returns k with its letter suffix removed.
func (k Key) WithoutSuffix() Key {
	k.Suffix = ""
	return k
}

func (k Key) String() string {
	if k.IsBare() {
		return k.Motion.String()
	}

	var b strings.Builder
	b.WriteString(k.Motion.String())
	b.WriteString("_to_")
	b.WriteString(k.Layer.String())
	if k.Variant != VariantNone {
		b.WriteByte('_')
		b.WriteString(k.Variant.String())
	}
	b.WriteByte('_')
	b.WriteString(k.Group.String())
	b.WriteString(string(k.Suffix))
	return b.String()
}
