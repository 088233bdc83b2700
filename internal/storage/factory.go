package storage

import (
	"fmt"
	"log/slog"

	"github.com/flowarts/pictograph/internal/config"
	"github.com/flowarts/pictograph/internal/storage/memory"
	"github.com/flowarts/pictograph/internal/storage/postgres"
	sqlitestorage "github.com/flowarts/pictograph/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

// Dependencies holds the loggers handed to the backends.
type Dependencies struct {
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// New creates a placement table backend based on configuration. The
// backend is not initialized.
func New(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	switch cfg.Type {
	case "postgres":
		b, err := postgres.New(cfg.Postgres, deps.Logger, deps.DBLogger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "sqlite":
		b, err := sqlitestorage.New(cfg.SQLite, deps.Logger, deps.DBLogger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory", "":
		return memory.New(cfg.Memory, deps.Logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
