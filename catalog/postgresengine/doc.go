// Package postgresengine provides a PostgreSQL implementation of catalog.StatementExecutor.
//
// Statements are resolved by their logical name (see catalog.StatementName) and
// rendered as prepared SQL with goqu's postgres dialect. The rendered SQL is executed
// through one of the supported database adapters (pgx, sql.DB, sqlx).
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Named statements with indexed or named parameters
//   - Lazy row streams for multi-row statements
//   - Configurable table name and dual-logger support
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewStoreFromPGXPool(db)
//
//	// With SQL debugging and operational logging
//	store, _ := postgresengine.NewStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("library_books"),
//		postgresengine.WithLogger(logger),
//	)
//
//	count, _ := store.Exec(ctx, catalog.DeleteBookByISBN, catalog.NamedParams(map[string]any{"isbn": isbn}))
package postgresengine
