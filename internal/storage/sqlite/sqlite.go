// Package sqlitestorage serves the placement table from a SQLite database,
// in memory when no path is configured.
package sqlitestorage

import (
	"fmt"
	"log/slog"

	"github.com/flowarts/pictograph/internal/config"
	"github.com/flowarts/pictograph/internal/database"
	gormstorage "github.com/flowarts/pictograph/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Backend wraps the GORM backend for SQLite.
type Backend struct {
	*gormstorage.Backend
	cfg config.SQLiteConfig
}

// New opens the database. Tables are created by Init.
func New(cfg config.SQLiteConfig, logger *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(db, logger),
		cfg:     cfg,
	}, nil
}

// InMemory reports whether the table lives only for the process lifetime.
func (b *Backend) InMemory() bool {
	return b.cfg.Path == ""
}
