// Package sqlite stores ReqGen data in a single SQLite file through gorm.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reqgen/internal/domain/repositories"
)

// Tables holds the prefixed table names
type Tables struct {
	Prefix            string
	Documents         string
	Users             string
	Notifications     string
	UserNotifications string
	Settings          string
}

// NewTables creates table names with the given prefix
func NewTables(prefix string) *Tables {
	return &Tables{
		Prefix:            prefix,
		Documents:         prefix + "documents",
		Users:             prefix + "users",
		Notifications:     prefix + "notifications",
		UserNotifications: prefix + "user_notifications",
		Settings:          prefix + "settings",
	}
}

// Config holds configuration for the sqlite repositories
type Config struct {
	DB     *gorm.DB
	Tables *Tables
	Logger *slog.Logger
}

// Open connects to the SQLite file at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, tables *Tables, log *slog.Logger, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite allows one writer; a single connection keeps transactions from deadlocking
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db, tables); err != nil {
		return nil, err
	}

	log.Info("sqlite storage ready", "path", path, "prefix", tables.Prefix)
	return db, nil
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB, tables *Tables) error {
	migrations := []struct {
		table string
		model interface{}
	}{
		{tables.Users, &userRow{}},
		{tables.Documents, &documentRow{}},
		{tables.Notifications, &notificationRow{}},
		{tables.UserNotifications, &receiptRow{}},
		{tables.Settings, &settingsRow{}},
	}

	for _, m := range migrations {
		if err := db.Table(m.table).AutoMigrate(m.model); err != nil {
			return fmt.Errorf("automigrate %s: %w", m.table, err)
		}
	}
	return nil
}

// DropAll removes every table, dependents first
func DropAll(db *gorm.DB, tables *Tables) error {
	for _, table := range []string{tables.Settings, tables.UserNotifications, tables.Notifications, tables.Documents, tables.Users} {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

type txKey struct{}

// conn returns the transaction in ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// TransactionManager implements repositories.TransactionManager with gorm transactions
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *gorm.DB) repositories.TransactionManager {
	return &TransactionManager{db: db}
}

// ExecTx runs fn inside a transaction. Nested calls join the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
