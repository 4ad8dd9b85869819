// Package config provides the runtime configuration of the book catalog service
// and factory functions for its infrastructure.
//
// Configuration is read from the process environment, optionally preloaded from a .env file.
// The package contains factory functions for creating database connections
// using different PostgreSQL drivers (pgx.Pool, sql.DB, sqlx.DB) with
// pre-configured pool tuning, and for the OpenTelemetry providers.
package config
