// Package gormstorage implements the placement table on a gorm database.
// The sqlite and postgres backends share it and differ only in how the
// connection is opened.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowarts/pictograph/internal/cache"
	"github.com/flowarts/pictograph/internal/placement"
	"github.com/flowarts/pictograph/pkg/core"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlacementRow is one placement table entry. Offsets are stored as a JSON
// column keyed by formatted turn count.
type PlacementRow struct {
	Key     string                                     `gorm:"column:placement_key;primaryKey;size:128"`
	Offsets datatypes.JSONType[map[string]core.Offset] `gorm:"column:offsets"`
}

func (PlacementRow) TableName() string {
	return "placements"
}

// Backend implements the placement table over gorm.
type Backend struct {
	db     *gorm.DB
	logger *slog.Logger
	keys   *cache.KeyCache
}

// New wraps an open connection.
func New(db *gorm.DB, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{db: db, logger: logger, keys: cache.NewKeyCache()}
}

// DB exposes the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the placements table.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(&PlacementRow{}); err != nil {
		return fmt.Errorf("failed to migrate placements table: %w", err)
	}
	b.logger.Debug("Placement table ready", "dialect", b.db.Dialector.Name())
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	b.keys.Reset()
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Keys returns the table's key set, read once and then kept in sync by Put.
func (b *Backend) Keys() (placement.KeySet, error) {
	if keys, ok := b.keys.Get(); ok {
		return keys, nil
	}

	var keys []string
	if err := b.db.Model(&PlacementRow{}).Pluck("placement_key", &keys).Error; err != nil {
		return nil, err
	}
	set := placement.NewKeySet(keys...)
	b.keys.Set(set)
	return set, nil
}

func (b *Backend) Offset(key string, turns float64) (core.Offset, bool, error) {
	var row PlacementRow
	err := b.db.Where("placement_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Offset{}, false, nil
	}
	if err != nil {
		return core.Offset{}, false, err
	}

	off, ok := row.Offsets.Data()[core.FormatTurns(turns)]
	return off, ok, nil
}

// Put upserts entry by key.
func (b *Backend) Put(entry core.PlacementEntry) error {
	if entry.Key == "" {
		return core.ErrEmptyPlacementKey
	}
	offsets := entry.Offsets
	if offsets == nil {
		offsets = map[string]core.Offset{}
	}

	row := PlacementRow{
		Key:     entry.Key,
		Offsets: datatypes.NewJSONType(offsets),
	}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "placement_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"offsets"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}
	b.keys.Add(entry.Key)
	return nil
}
