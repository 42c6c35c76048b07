// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spotter-dz/spotter/internal/config"
	"github.com/spotter-dz/spotter/internal/storage/memory"
	"github.com/spotter-dz/spotter/internal/storage/postgres"
	sqlitestorage "github.com/spotter-dz/spotter/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, db config.DBConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(db, log)
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, log)
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
