package config

import (
	"os"
	"strconv"
	"time"
)

// Storage drivers selectable with STORAGE_DRIVER
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	LogDir      string
	// Storage
	StorageDriver    string
	DatabaseURL      string
	SQLitePath       string
	SnapshotPath     string // JSON snapshot of the in-memory store, empty = disabled
	SnapshotSchedule string // cron spec for snapshot flushes
	RunMigrations    bool
	SeedDemoUsers    bool
	// Auth
	JWTSecret           string
	JWTTTL              time.Duration
	JWKSURL             string // Optional external identity provider
	AllowHeaderIdentity bool   // Accept X-User-* headers when no bearer token is sent
	// AI collaborators
	AnthropicAPIKey  string
	AnthropicModel   string
	PythonBackendURL string
	// SMTP
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	SMTPFromEmail string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
		TablePrefix: tablePrefix,
		LogDir:      getEnv("LOG_DIR", ""),
		// Storage
		StorageDriver:    getEnv("STORAGE_DRIVER", StorageMemory),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "reqgen.db"),
		SnapshotPath:     getEnv("STORAGE_SNAPSHOT_PATH", ""),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "@every 1m"),
		RunMigrations:    getEnv("RUN_MIGRATIONS", "true") == "true",
		SeedDemoUsers:    getEnv("SEED_DEMO_USERS", getDefaultDebug(env)) == "true",
		// Auth
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTTTL:              getDuration("JWT_TTL", 24*time.Hour),
		JWKSURL:             getEnv("JWKS_URL", ""),
		AllowHeaderIdentity: getEnv("ALLOW_HEADER_IDENTITY", getDefaultDebug(env)) == "true",
		// AI collaborators
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		PythonBackendURL: getEnv("PYTHON_BACKEND_URL", "http://localhost:5000"),
		// SMTP
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getInt("SMTP_PORT", 587),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
