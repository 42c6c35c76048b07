// Package postgres implements the storage.Backend interface on PostgreSQL
// through the GORM backend.
package postgres

import (
	"github.com/rs/zerolog"
	"github.com/spotter-dz/spotter/internal/config"
	"github.com/spotter-dz/spotter/internal/database"
	gormstorage "github.com/spotter-dz/spotter/internal/storage/gorm"
)

// Backend owns a Postgres connection pool.
type Backend struct {
	*gormstorage.Backend
	mgr *database.Manager
}

// New connects to the database described by cfg.
func New(cfg config.DBConfig, log zerolog.Logger) (*Backend, error) {
	mgr := database.NewManager(log)
	if err := mgr.ConnectPostgres(cfg); err != nil {
		return nil, err
	}
	return &Backend{Backend: gormstorage.New(mgr.DB), mgr: mgr}, nil
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	return b.mgr.Close()
}
