// Package cli implements reqgenctl, the maintenance command line for the ReqGen store.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"reqgen/internal/config"
)

// RootOptions holds global flags for all commands.
// Empty storage flags fall back to the environment configuration.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text"
	Storage      string
	DatabaseURL  string
	SQLitePath   string
	SnapshotPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for reqgenctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reqgenctl",
		Short: "ReqGen storage maintenance",
		Long:  "Migrate, seed and inspect the ReqGen document store (memory snapshot, PostgreSQL or SQLite).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage driver (memory|postgres|sqlite), defaults to STORAGE_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "PostgreSQL URL, defaults to DATABASE_URL")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", "", "SQLite file, defaults to SQLITE_PATH")
	cmd.PersistentFlags().StringVar(&opts.SnapshotPath, "snapshot", "", "memory snapshot file, defaults to STORAGE_SNAPSHOT_PATH")

	// Add subcommands
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// config loads the environment configuration and applies flag overrides
func (o *RootOptions) config() *config.Config {
	cfg := config.Load()
	if o.Storage != "" {
		cfg.StorageDriver = o.Storage
	}
	if o.DatabaseURL != "" {
		cfg.DatabaseURL = o.DatabaseURL
	}
	if o.SQLitePath != "" {
		cfg.SQLitePath = o.SQLitePath
	}
	if o.SnapshotPath != "" {
		cfg.SnapshotPath = o.SnapshotPath
	}
	return cfg
}

// logger writes to stderr so JSON output on stdout stays clean
func (o *RootOptions) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}
