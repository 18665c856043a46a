// Package repository selects and opens the storage adapter named by STORAGE_DRIVER.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"reqgen/internal/config"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/repository/memory"
	"reqgen/internal/repository/postgres"
	"reqgen/internal/repository/sqlite"
)

// Set bundles the repositories of one storage adapter
type Set struct {
	Driver        string
	Documents     repositories.DocumentRepository
	Users         repositories.UserRepository
	Notifications repositories.NotificationRepository
	Settings      repositories.SettingsRepository
	Tx            repositories.TransactionManager

	// Memory is set for the in-memory driver so its snapshot can be flushed
	Memory *memory.Store

	closers []func()
}

// Close releases the underlying connections
func (s *Set) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Open builds the repositories for cfg.StorageDriver
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory, "":
		return openMemory(cfg, logger)
	case config.StoragePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StorageSQLite:
		return openSQLite(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewMemorySet wires the in-memory adapter over store
func NewMemorySet(store *memory.Store) *Set {
	return &Set{
		Driver:        config.StorageMemory,
		Documents:     memory.NewDocumentRepository(store),
		Users:         memory.NewUserRepository(store),
		Notifications: memory.NewNotificationRepository(store),
		Settings:      memory.NewSettingsRepository(store),
		Tx:            memory.NewTransactionManager(store),
		Memory:        store,
	}
}

func openMemory(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	store := memory.NewStore(logger)
	if cfg.SnapshotPath != "" {
		if err := store.LoadFile(cfg.SnapshotPath); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		logger.Info("memory storage loaded", "path", cfg.SnapshotPath)
	}
	return NewMemorySet(store), nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if cfg.RunMigrations {
		if err := postgres.Migrate(cfg.DatabaseURL, tables, logger); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "prefix", cfg.TablePrefix)

	repoCfg := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	return &Set{
		Driver:        config.StoragePostgres,
		Documents:     postgres.NewDocumentRepository(repoCfg),
		Users:         postgres.NewUserRepository(repoCfg),
		Notifications: postgres.NewNotificationRepository(repoCfg),
		Settings:      postgres.NewSettingsRepository(repoCfg),
		Tx:            postgres.NewTransactionManager(pool, logger),
		closers:       []func(){pool.Close},
	}, nil
}

func openSQLite(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	tables := sqlite.NewTables(cfg.TablePrefix)
	db, err := sqlite.Open(cfg.SQLitePath, tables, logger, cfg.Debug && cfg.Environment == "dev")
	if err != nil {
		return nil, err
	}

	repoCfg := &sqlite.Config{DB: db, Tables: tables, Logger: logger}
	set := &Set{
		Driver:        config.StorageSQLite,
		Documents:     sqlite.NewDocumentRepository(repoCfg),
		Users:         sqlite.NewUserRepository(repoCfg),
		Notifications: sqlite.NewNotificationRepository(repoCfg),
		Settings:      sqlite.NewSettingsRepository(repoCfg),
		Tx:            sqlite.NewTransactionManager(db),
	}
	if sqlDB, err := db.DB(); err == nil {
		set.closers = append(set.closers, func() { sqlDB.Close() })
	}
	return set, nil
}
