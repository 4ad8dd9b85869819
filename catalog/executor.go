package catalog

import "context"

// StatementExecutor executes named statements against the store.
//
// Exec runs DDL and DML statements and returns the affected-row count.
// Query runs a statement yielding a lazy row sequence.
// Get runs a statement yielding at most one row; found is false when no row matched.
//
// Failures are surfaced as errors, never as silent defaults.
type StatementExecutor interface {
	Exec(ctx context.Context, name StatementName, params Params) (int64, error)
	Query(ctx context.Context, name StatementName, params Params) (RowStream, error)
	Get(ctx context.Context, name StatementName, params Params) (row Row, found bool, err error)
}

// Pinger is implemented by executors that can check the store connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
