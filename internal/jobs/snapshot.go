package jobs

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SnapshotSaver persists a store to disk. memory.Store implements it.
type SnapshotSaver interface {
	SaveFile(path string) error
}

// Scheduler runs periodic maintenance jobs
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a scheduler. Jobs are not run until Start.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		logger: logger,
	}
}

// AddSnapshotFlush saves store to path on schedule (a cron spec such as "@every 1m")
func (s *Scheduler) AddSnapshotFlush(schedule, path string, store SnapshotSaver) error {
	_, err := s.cron.AddFunc(schedule, func() {
		FlushSnapshot(store, path, s.logger)
	})
	if err != nil {
		return fmt.Errorf("schedule snapshot flush %q: %w", schedule, err)
	}

	s.logger.Info("snapshot flush scheduled", "schedule", schedule, "path", path)
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// FlushSnapshot saves the store once and logs the outcome
func FlushSnapshot(store SnapshotSaver, path string, logger *slog.Logger) {
	if err := store.SaveFile(path); err != nil {
		logger.Error("snapshot flush failed", "path", path, "error", err)
	}
}
