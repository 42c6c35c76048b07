// Package sqlitestorage implements the storage.Backend interface on SQLite.
// It wraps the GORM backend; the only SQLite-specific concerns are opening
// the database and, for in-memory databases, periodic disk dumps via
// VACUUM INTO.
package sqlitestorage

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spotter-dz/spotter/internal/config"
	"github.com/spotter-dz/spotter/internal/database"
	gormstorage "github.com/spotter-dz/spotter/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	mgr      *database.Manager
	cfg      config.SQLiteConfig
	log      zerolog.Logger
	stopChan chan struct{}
	done     sync.WaitGroup
	stopOnce sync.Once
}

// New opens the SQLite database described by cfg.
func New(cfg config.SQLiteConfig, log zerolog.Logger) (*Backend, error) {
	mgr := database.NewManager(log)
	if err := mgr.ConnectSqlite(cfg.Path); err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend:  gormstorage.New(mgr.DB),
		mgr:      mgr,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema and starts the dump goroutine for in-memory
// databases.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.dumps() {
		b.done.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, writes a final dump and closes the
// database.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.done.Wait()

	if b.dumps() {
		if err := b.mgr.DumpMemoryToDisk(b.cfg.DumpPath); err != nil {
			b.log.Error().Err(err).Msg("Final dump failed")
		}
	}
	return b.mgr.Close()
}

func (b *Backend) dumps() bool {
	return b.cfg.Path == "" && b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0
}

// dumpLoop periodically dumps the in-memory SQLite database to disk.
func (b *Backend) dumpLoop() {
	defer b.done.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.mgr.DumpMemoryToDisk(b.cfg.DumpPath); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
