package database

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spotter-dz/spotter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	m := NewManager(zerolog.New(&buf))
	t.Cleanup(func() { _ = m.Close() })
	return m, &buf
}

func TestConnectSqlite_File(t *testing.T) {
	m, logs := newTestManager(t)
	path := filepath.Join(t.TempDir(), "spotter.db")

	require.NoError(t, m.ConnectSqlite(path))
	require.NotNil(t, m.DB)
	require.NotNil(t, m.SqlDB)

	assert.Contains(t, logs.String(), "Using local SQLite DB")
	assert.Contains(t, logs.String(), path)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestConnectSqlite_Memory(t *testing.T) {
	m, logs := newTestManager(t)

	require.NoError(t, m.ConnectSqlite(""))
	assert.Contains(t, logs.String(), "in memory")
	assert.Equal(t, 1, m.SqlDB.Stats().MaxOpenConnections)
}

func TestClose_NotConnected(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.Close())
}

func TestDumpMemoryToDisk(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.ConnectSqlite(filepath.Join(t.TempDir(), "live.db")))
	require.NoError(t, m.DB.AutoMigrate(&model.Calculation{}))
	require.NoError(t, m.DB.Create(&model.Calculation{InputHash: "abc"}).Error)

	dump := filepath.Join(t.TempDir(), "dump.db")
	require.NoError(t, os.WriteFile(dump, []byte("stale"), 0o644))
	require.NoError(t, m.DumpMemoryToDisk(dump))

	restored, err := GetSqliteDB(dump)
	require.NoError(t, err)
	var count int64
	require.NoError(t, restored.Model(&model.Calculation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDumpMemoryToDisk_Errors(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Error(t, m.DumpMemoryToDisk(""))
	assert.Error(t, m.DumpMemoryToDisk(filepath.Join(t.TempDir(), "x.db")))
}
