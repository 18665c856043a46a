package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqgen/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_Memory(t *testing.T) {
	set, err := Open(context.Background(), &config.Config{StorageDriver: config.StorageMemory}, testLogger())
	require.NoError(t, err)
	defer set.Close()

	assert.Equal(t, config.StorageMemory, set.Driver)
	assert.NotNil(t, set.Memory)
	assert.NotNil(t, set.Documents)
	assert.NotNil(t, set.Tx)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: config.StorageSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "reqgen.db"),
		TablePrefix:   "test_",
	}
	set, err := Open(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer set.Close()

	assert.Nil(t, set.Memory)
	docs, err := set.Documents.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOpen_PostgresNeedsURL(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageDriver: config.StoragePostgres}, testLogger())
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageDriver: "mongo"}, testLogger())
	assert.ErrorContains(t, err, "unknown storage driver")
}
