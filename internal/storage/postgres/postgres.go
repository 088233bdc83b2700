// Package postgres serves the placement table from PostgreSQL.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/flowarts/pictograph/internal/config"
	"github.com/flowarts/pictograph/internal/database"
	gormstorage "github.com/flowarts/pictograph/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Backend wraps the GORM backend for PostgreSQL.
type Backend struct {
	*gormstorage.Backend
}

// New connects using the db.* settings.
func New(cfg config.DBConfig, logger *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	db, err := database.GetPostgresDB(cfg, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Backend{Backend: gormstorage.New(db, logger)}, nil
}
