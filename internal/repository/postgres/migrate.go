package postgres

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"text/template"

	"github.com/golang-migrate/migrate/v4"
	// Register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RenderMigrations writes the embedded migrations into dir with table names
// substituted for the given prefix.
func RenderMigrations(dir string, tables *TableNames) error {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, entry := range entries {
		raw, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		tmpl, err := template.New(entry.Name()).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse migration %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, tables); err != nil {
			return fmt.Errorf("render migration %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(filepath.Join(dir, entry.Name()), buf.Bytes(), 0o600); err != nil {
			return fmt.Errorf("write migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// MigrationURL points golang-migrate at the prefixed version table
func MigrationURL(databaseURL string, tables *TableNames) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", tables.Migrations)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Migrate applies every pending migration. Already-current schemas are not an error.
func Migrate(databaseURL string, tables *TableNames, logger *slog.Logger) error {
	return withMigrator(databaseURL, tables, logger, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("schema up to date", "prefix", tables.Prefix)
				return nil
			}
			return fmt.Errorf("apply migrations: %w", err)
		}

		version, dirty, _ := m.Version()
		logger.Info("migrations applied", "prefix", tables.Prefix, "version", version, "dirty", dirty)
		return nil
	})
}

// Reset rolls every migration back, dropping the prefixed tables
func Reset(databaseURL string, tables *TableNames, logger *slog.Logger) error {
	return withMigrator(databaseURL, tables, logger, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		logger.Info("schema dropped", "prefix", tables.Prefix)
		return nil
	})
}

func withMigrator(databaseURL string, tables *TableNames, logger *slog.Logger, fn func(*migrate.Migrate) error) error {
	dir, err := os.MkdirTemp("", "reqgen-migrations-*")
	if err != nil {
		return fmt.Errorf("create migration dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := RenderMigrations(dir, tables); err != nil {
		return err
	}

	dsn, err := MigrationURL(databaseURL, tables)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrations", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	return fn(m)
}
