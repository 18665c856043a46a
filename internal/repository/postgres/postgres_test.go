package postgres

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")

	assert.Equal(t, "dev_documents", tables.Documents)
	assert.Equal(t, "dev_users", tables.Users)
	assert.Equal(t, "dev_notifications", tables.Notifications)
	assert.Equal(t, "dev_user_notifications", tables.UserNotifications)
	assert.Equal(t, "dev_settings", tables.Settings)
	assert.Equal(t, "dev_schema_migrations", tables.Migrations)
}

func TestRenderMigrations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, RenderMigrations(dir, NewTableNames("test_")))

	up, err := os.ReadFile(filepath.Join(dir, "000001_init.up.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS test_documents")
	assert.Contains(t, string(up), "REFERENCES test_notifications (id)")
	assert.NotContains(t, string(up), "{{")

	down, err := os.ReadFile(filepath.Join(dir, "000001_init.down.sql"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(down), "DROP TABLE IF EXISTS test_settings"))
}

func TestMigrationURL(t *testing.T) {
	dsn, err := MigrationURL("postgres://u:p@localhost:5432/reqgen?sslmode=disable", NewTableNames("prod_"))
	require.NoError(t, err)

	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "x-migrations-table=prod_schema_migrations")
}

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: codeUniqueViolation})
	badUUID := &pgconn.PgError{Code: codeInvalidText}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(badUUID))

	assert.True(t, isMissing(pgx.ErrNoRows))
	assert.True(t, isMissing(badUUID))
	assert.False(t, isMissing(unique))
	assert.False(t, isMissing(errors.New("connection reset")))

	assert.Empty(t, pgCode(errors.New("plain")))
}
