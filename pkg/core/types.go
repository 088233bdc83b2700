// pkg/core/types.go
package core

import (
	"errors"
	"strconv"
)

// ErrEmptyPlacementKey is returned when storing a placement entry without a key.
var ErrEmptyPlacementKey = errors.New("placement entry has no key")

// Position2D is a projected point on the rendering surface.
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset is a precomputed glyph displacement from a placement table.
type Offset struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PlacementEntry is one row of a placement table: offsets for a key,
// indexed by the formatted turn count ("0", "0.5", "1", ...).
type PlacementEntry struct {
	Key     string
	Offsets map[string]Offset
}

// FormatTurns renders a turn count the way placement tables index it.
func FormatTurns(turns float64) string {
	return strconv.FormatFloat(turns, 'f', -1, 64)
}
