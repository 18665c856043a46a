package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Prefix            string
	Documents         string
	Users             string
	Notifications     string
	UserNotifications string
	Settings          string
	Migrations        string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:            prefix,
		Documents:         fmt.Sprintf("%sdocuments", prefix),
		Users:             fmt.Sprintf("%susers", prefix),
		Notifications:     fmt.Sprintf("%snotifications", prefix),
		UserNotifications: fmt.Sprintf("%suser_notifications", prefix),
		Settings:          fmt.Sprintf("%ssettings", prefix),
		Migrations:        fmt.Sprintf("%sschema_migrations", prefix),
	}
}

const (
	poolMaxConns = 25
	poolMinConns = 5

	// transaction-mode poolers (PgBouncer, Supabase) listen here and reject prepared statements
	transactionPoolerPort = 6543
)

// CreateConnectionPool opens and pings a pgx pool.
//
// Behind a transaction-mode pooler the pool switches to QueryExecModeCacheDescribe,
// unless the URL sets default_query_exec_mode itself. Table names are interpolated
// before the SQL reaches the server, so each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	cfg.MaxConns = poolMaxConns
	cfg.MinConns = poolMinConns

	conn := cfg.ConnConfig
	if conn.Port == transactionPoolerPort && conn.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		conn.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		logger.Debug("using cache_describe exec mode for transaction pooler", "port", conn.Port)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
