// Package adapters provide database adapter implementations for the PostgreSQL statement catalog.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the engine to work with any
// supported database connection type.
//
// Rows are materialised as column-name keyed maps so that the record mapper
// can detect absent columns independently of the driver in use.
package adapters
