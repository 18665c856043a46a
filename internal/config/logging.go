package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	logFilePrefix = "reqgen-"
	logFileSuffix = ".log"
	logTimeLayout = "2006-01-02T15-04-05"
)

// SetupLogFile opens a new timestamped log file in dir and keeps only the
// maxFiles most recent ones. The caller closes the returned file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := logFilePrefix + time.Now().UTC().Format(logTimeLayout) + logFileSuffix
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// logging still works when pruning fails
	if err := pruneLogs(dir, maxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneLogs removes the oldest log files beyond maxFiles.
// Timestamped names sort chronologically.
func pruneLogs(dir string, maxFiles int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), logFilePrefix) && strings.HasSuffix(e.Name(), logFileSuffix) {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) <= maxFiles {
		return nil
	}

	slices.Sort(logs)
	for _, name := range logs[:len(logs)-maxFiles] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
