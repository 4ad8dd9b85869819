package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Adapter types selectable with DB_ADAPTER.
const (
	AdapterPGX    = "pgx"
	AdapterSQL    = "sql"
	AdapterSQLX   = "sqlx"
	AdapterMemory = "memory"
)

// Environment variable names.
const (
	EnvHTTPAddr             = "HTTP_ADDR"
	EnvDBAdapter            = "DB_ADAPTER"
	EnvDatabaseURL          = "DATABASE_URL"
	EnvBooksTable           = "BOOKS_TABLE"
	EnvDBMaxConns           = "DB_MAX_CONNS"
	EnvLogLevel             = "LOG_LEVEL"
	EnvObservabilityEnabled = "OBSERVABILITY_ENABLED"
	EnvOTLPEndpoint         = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvSeedFile             = "SEED_FILE"
	EnvStrictRowMatch       = "STRICT_ROW_MATCH"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultBooksTable   = "books"
	defaultDBMaxConns   = 8
	defaultOTLPEndpoint = "localhost:4317"
)

var (
	// ErrUnsupportedAdapter is returned for an unknown DB_ADAPTER value.
	ErrUnsupportedAdapter = errors.New("unsupported database adapter")

	// ErrInvalidValue is returned when an environment variable cannot be parsed.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config holds the runtime configuration of the service.
type Config struct {
	HTTPAddr             string
	DBAdapter            string
	DatabaseURL          string
	BooksTable           string
	DBMaxConns           int
	LogLevel             slog.Level
	ObservabilityEnabled bool
	OTLPEndpoint         string
	SeedFile             string
	StrictRowMatch       bool
}

// Load reads the optional env file and then the process environment.
// A missing env file is not an error; variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	return FromEnvironment()
}

// FromEnvironment builds a Config from environment variables, applying defaults.
func FromEnvironment() (Config, error) {
	cfg := Config{
		HTTPAddr:     envOrDefault(EnvHTTPAddr, defaultHTTPAddr),
		DBAdapter:    strings.ToLower(envOrDefault(EnvDBAdapter, AdapterPGX)),
		DatabaseURL:  envOrDefault(EnvDatabaseURL, PostgresDefaultDSN()),
		BooksTable:   envOrDefault(EnvBooksTable, defaultBooksTable),
		OTLPEndpoint: envOrDefault(EnvOTLPEndpoint, defaultOTLPEndpoint),
		SeedFile:     os.Getenv(EnvSeedFile),
	}

	if err := cfg.SetAdapter(cfg.DBAdapter); err != nil {
		return Config{}, err
	}

	var err error

	if cfg.DBMaxConns, err = intFromEnv(EnvDBMaxConns, defaultDBMaxConns); err != nil {
		return Config{}, err
	}

	if cfg.ObservabilityEnabled, err = boolFromEnv(EnvObservabilityEnabled); err != nil {
		return Config{}, err
	}

	if cfg.StrictRowMatch, err = boolFromEnv(EnvStrictRowMatch); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel, err = levelFromEnv(EnvLogLevel); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SetAdapter validates and sets the database adapter type.
func (c *Config) SetAdapter(adapter string) error {
	adapter = strings.ToLower(adapter)

	switch adapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX, AdapterMemory:
		c.DBAdapter = adapter
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAdapter, adapter)
	}
}

func envOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 || value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s=%q must be a positive 32-bit integer", ErrInvalidValue, key, raw)
	}

	return value, nil
}

func boolFromEnv(key string) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q must be a boolean", ErrInvalidValue, key, raw)
	}

	return value, nil
}

func levelFromEnv(key string) (slog.Level, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, raw)
	}

	return level, nil
}
