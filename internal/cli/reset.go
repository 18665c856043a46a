package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reqgen/internal/config"
	"reqgen/internal/repository/postgres"
	"reqgen/internal/repository/sqlite"
)

// ResetOptions holds reset command flags.
type ResetOptions struct {
	Yes bool
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every table for the configured prefix",
		Long: `Drop every ReqGen table for the configured environment prefix.

PostgreSQL rolls back the embedded migrations, SQLite drops the tables and the
memory driver removes its snapshot file. Requires --yes.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes {
				return errors.New("refusing to drop data without --yes")
			}
			return runReset(rootOpts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm dropping all data")

	return cmd
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	cfg := opts.config()
	logger := opts.logger(cmd.ErrOrStderr())

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		if err := postgres.Reset(cfg.DatabaseURL, postgres.NewTableNames(cfg.TablePrefix), logger); err != nil {
			return err
		}

	case config.StorageSQLite:
		tables := sqlite.NewTables(cfg.TablePrefix)
		db, err := sqlite.Open(cfg.SQLitePath, tables, logger, opts.Verbose)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := sqlite.DropAll(db, tables); err != nil {
			return err
		}

	case config.StorageMemory:
		if cfg.SnapshotPath != "" {
			if err := os.Remove(cfg.SnapshotPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove snapshot: %w", err)
			}
		}

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "all %s data dropped (prefix %q)\n", cfg.StorageDriver, cfg.TablePrefix)
	return nil
}
