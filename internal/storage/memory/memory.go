// internal/storage/memory/memory.go
package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flowarts/pictograph/internal/config"
	"github.com/flowarts/pictograph/internal/placement"
	"github.com/flowarts/pictograph/pkg/core"
	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a placement table:
// {"pro_to_layer1_alpha": {"0": [x, y], "0.5": [x, y]}}.
type tableFile map[string]map[string][2]float64

// Backend keeps a placement table in memory, optionally loaded from a JSON
// or YAML file.
type Backend struct {
	cfg    config.MemoryConfig
	logger *slog.Logger

	entries map[string]map[string]core.Offset
	mu      sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]map[string]core.Offset),
	}
}

// Init loads the configured file. With no path the table starts empty.
func (b *Backend) Init() error {
	if b.cfg.Path == "" {
		return nil
	}

	data, err := os.ReadFile(b.cfg.Path)
	if err != nil {
		return fmt.Errorf("error reading placement table: %w", err)
	}

	var raw tableFile
	if isYAML(b.cfg.Path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return fmt.Errorf("error decoding placement table %s: %w", b.cfg.Path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for key, byTurns := range raw {
		offsets := make(map[string]core.Offset, len(byTurns))
		for turns, xy := range byTurns {
			offsets[turns] = core.Offset{X: xy[0], Y: xy[1]}
		}
		b.entries[key] = offsets
	}

	b.logger.Info("Loaded placement table", "path", b.cfg.Path, "keys", len(b.entries))
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) Keys() (placement.KeySet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := make(placement.KeySet, len(b.entries))
	for k := range b.entries {
		s[k] = struct{}{}
	}
	return s, nil
}

func (b *Backend) Offset(key string, turns float64) (core.Offset, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	off, ok := b.entries[key][core.FormatTurns(turns)]
	return off, ok, nil
}

// Put replaces the entry for entry.Key. The offsets map is copied.
func (b *Backend) Put(entry core.PlacementEntry) error {
	if entry.Key == "" {
		return core.ErrEmptyPlacementKey
	}

	offsets := make(map[string]core.Offset, len(entry.Offsets))
	for t, o := range entry.Offsets {
		offsets[t] = o
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[entry.Key] = offsets
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
