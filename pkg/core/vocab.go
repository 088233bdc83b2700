// pkg/core/vocab.go
package core

import "strings"

// Position is a point on the compass grid a prop can start or end on.
type Position int

const (
	PositionUnknown Position = iota
	PositionN
	PositionE
	PositionS
	PositionW
	PositionNE
	PositionSE
	PositionSW
	PositionNW
)

var positionNames = map[Position]string{
	PositionN:  "n",
	PositionE:  "e",
	PositionS:  "s",
	PositionW:  "w",
	PositionNE: "ne",
	PositionSE: "se",
	PositionSW: "sw",
	PositionNW: "nw",
}

func (p Position) String() string {
	if s, ok := positionNames[p]; ok {
		return s
	}
	return "unknown"
}

// IsCardinal reports whether p is one of N, E, S, W.
func (p Position) IsCardinal() bool {
	switch p {
	case PositionN, PositionE, PositionS, PositionW:
		return true
	}
	return false
}

// ParsePosition parses a case-insensitive compass token.
// Unrecognized tokens return PositionUnknown and false.
func ParsePosition(s string) (Position, bool) {
	token := strings.ToLower(strings.TrimSpace(s))
	for p, name := range positionNames {
		if name == token {
			return p, true
		}
	}
	return PositionUnknown, false
}

// Orientation is the facing of a prop at a step boundary. Compass values
// are absolute; In and Out are resolved against a center-path angle.
type Orientation int

const (
	OrientationNone Orientation = iota
	OrientationN
	OrientationE
	OrientationS
	OrientationW
	OrientationIn
	OrientationOut
	OrientationClock
	OrientationCounter
	OrientationUnknown
)

var orientationNames = map[Orientation]string{
	OrientationN:       "n",
	OrientationE:       "e",
	OrientationS:       "s",
	OrientationW:       "w",
	OrientationIn:      "in",
	OrientationOut:     "out",
	OrientationClock:   "clock",
	OrientationCounter: "counter",
}

func (o Orientation) String() string {
	if s, ok := orientationNames[o]; ok {
		return s
	}
	if o == OrientationNone {
		return ""
	}
	return "unknown"
}

// Compass returns the grid position sharing o's compass letter.
func (o Orientation) Compass() (Position, bool) {
	switch o {
	case OrientationN:
		return PositionN, true
	case OrientationE:
		return PositionE, true
	case OrientationS:
		return PositionS, true
	case OrientationW:
		return PositionW, true
	}
	return PositionUnknown, false
}

// IsRadial reports whether o points along the radius (in/out).
// An absent orientation counts as radial.
func (o Orientation) IsRadial() bool {
	return o == OrientationIn || o == OrientationOut || o == OrientationNone
}

// IsExplicit reports whether o is one of the tokens that override a
// computed end staff angle: N, E, S, W, in, out.
func (o Orientation) IsExplicit() bool {
	switch o {
	case OrientationN, OrientationE, OrientationS, OrientationW, OrientationIn, OrientationOut:
		return true
	}
	return false
}

// ParseOrientation parses a case-insensitive orientation token. The empty
// string is OrientationNone and is accepted.
func ParseOrientation(s string) (Orientation, bool) {
	token := strings.ToLower(strings.TrimSpace(s))
	if token == "" {
		return OrientationNone, true
	}
	for o, name := range orientationNames {
		if name == token {
			return o, true
		}
	}
	return OrientationUnknown, false
}

// MotionType selects the target-angle rule applied to a prop.
type MotionType int

const (
	MotionUnknown MotionType = iota
	MotionPro
	MotionAnti
	MotionStatic
	MotionDash
	MotionFloat
)

// MotionTypes lists every known motion type in declaration order.
var MotionTypes = []MotionType{MotionPro, MotionAnti, MotionStatic, MotionDash, MotionFloat}

func (m MotionType) String() string {
	switch m {
	case MotionPro:
		return "pro"
	case MotionAnti:
		return "anti"
	case MotionStatic:
		return "static"
	case MotionDash:
		return "dash"
	case MotionFloat:
		return "float"
	case MotionUnknown:
		return "unknown"
	}
	return "unknown"
}

// ParseMotionType parses a case-insensitive motion type token.
func ParseMotionType(s string) (MotionType, bool) {
	token := strings.ToLower(strings.TrimSpace(s))
	for _, m := range MotionTypes {
		if m.String() == token {
			return m, true
		}
	}
	return MotionUnknown, false
}

// RotationDirection is the handedness of a prop's spin.
type RotationDirection int

const (
	RotationUnknown RotationDirection = iota
	RotationCW
	RotationCCW
	RotationNone
)

func (r RotationDirection) String() string {
	switch r {
	case RotationCW:
		return "cw"
	case RotationCCW:
		return "ccw"
	case RotationNone:
		return "no_rot"
	case RotationUnknown:
		return "unknown"
	}
	return "unknown"
}

// Sign is -1 for counter-clockwise and 1 otherwise.
func (r RotationDirection) Sign() float64 {
	if r == RotationCCW {
		return -1
	}
	return 1
}

// ParseRotationDirection parses cw, ccw or no_rot. An empty token is
// treated as no_rot.
func ParseRotationDirection(s string) (RotationDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cw":
		return RotationCW, true
	case "ccw":
		return RotationCCW, true
	case "no_rot", "norot", "":
		return RotationNone, true
	}
	return RotationUnknown, false
}

// PropColor identifies one of the two props in a pictograph.
type PropColor int

const (
	Blue PropColor = iota
	Red
)

func (c PropColor) String() string {
	if c == Red {
		return "red"
	}
	return "blue"
}

// ParsePropColor parses "blue" or "red".
func ParsePropColor(s string) (PropColor, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blue":
		return Blue, true
	case "red":
		return Red, true
	}
	return Blue, false
}
