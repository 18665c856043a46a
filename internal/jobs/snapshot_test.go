package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqgen/internal/domain/models"
	"reqgen/internal/repository/memory"
)

type countingSaver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSaver) SaveFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingSaver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(discardLogger())
	err := s.AddSnapshotFlush("every now and then", "x.json", &countingSaver{})
	require.Error(t, err)
}

func TestScheduler_RunsFlush(t *testing.T) {
	saver := &countingSaver{}
	s := NewScheduler(discardLogger())
	require.NoError(t, s.AddSnapshotFlush("@every 1s", "x.json", saver))

	s.Start()
	assert.Eventually(t, func() bool { return saver.count() > 0 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestFlushSnapshot(t *testing.T) {
	logger := discardLogger()
	path := filepath.Join(t.TempDir(), "store.json")

	store := memory.NewStore(logger)
	require.NoError(t, memory.NewSettingsRepository(store).Upsert(context.Background(), &models.Settings{CompanyName: "Acme"}))

	FlushSnapshot(store, path, logger)
	_, err := os.Stat(path)
	require.NoError(t, err)

	restored := memory.NewStore(logger)
	require.NoError(t, restored.LoadFile(path))
	settings, err := memory.NewSettingsRepository(restored).Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "Acme", settings.CompanyName)

	// errors are logged, not returned
	FlushSnapshot(&countingSaver{err: errors.New("disk full")}, path, logger)
}
