// Package storage holds the placement tables the arrow renderer reads
// offsets from, keyed by the placement cascade.
package storage

import (
	"fmt"

	"github.com/flowarts/pictograph/internal/placement"
	"github.com/flowarts/pictograph/pkg/core"
)

// Backend is the interface all placement table implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Keys returns every key present in the table.
	Keys() (placement.KeySet, error)
	// Offset returns the offset stored for key at the given turn count.
	Offset(key string, turns float64) (core.Offset, bool, error)
	// Put inserts or replaces an entry.
	Put(entry core.PlacementEntry) error
}

// Placement is the outcome of resolving one prop against a table.
type Placement struct {
	Key    string
	Offset core.Offset
	Found  bool
}

// Resolve derives the placement key for one prop through the cascade and
// fetches its offset. A key without an offset for the prop's turns is not an
// error; Found reports it.
func Resolve(b Backend, g *placement.Generator, color core.PropColor, attrs core.PropAttributes, ctx placement.Context) (Placement, error) {
	keys, err := b.Keys()
	if err != nil {
		return Placement{}, fmt.Errorf("error listing placement keys: %w", err)
	}

	key := g.GenerateKey(color, attrs, ctx, keys)

	off, ok, err := b.Offset(key, attrs.Turns)
	if err != nil {
		return Placement{}, fmt.Errorf("error reading offset for %s: %w", key, err)
	}
	return Placement{Key: key, Offset: off, Found: ok}, nil
}
