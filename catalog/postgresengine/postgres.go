package postgresengine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/postgresengine/internal/adapters"
)

const (
	defaultTableName           = "books"
	logMsgBuildStatementFailed = "failed to build statement"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgDBExecFailed         = "database statement execution failed"
	logMsgRowsAffectedFailed   = "failed to get rows affected count"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgStatementExecuted    = "statement executed"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "catalog operation: "
	logAttrError               = "error"
	logAttrQuery               = "query"
	logAttrStatement           = "statement"
	logAttrRowsAffected        = "rows_affected"
	logAttrDurationMS          = "duration_ms"
)

// Store executes the named statements of the book catalog against PostgreSQL.
// It leverages a database adapter and supports customizable logging and table configuration.
type Store struct {
	db               adapters.DBAdapter
	tableName        string
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	store := &Store{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// TableName returns the name of the book table.
func (s *Store) TableName() string {
	return s.tableName
}

// Exec executes a DDL or DML statement and returns the affected-row count.
func (s *Store) Exec(ctx context.Context, name catalog.StatementName, params catalog.Params) (int64, error) {
	sqlQuery, args, err := s.prepare(ctx, name, catalog.KindDML, params)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logStatementWithDuration(ctx, sqlQuery, string(name), duration)

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrStatement, string(name), logAttrQuery, sqlQuery)

		return 0, fmt.Errorf("%w: %w", catalog.ErrStatementExecutionFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr, logAttrStatement, string(name))

		return 0, fmt.Errorf("%w: %w", catalog.ErrStatementExecutionFailed, rowsAffectedErr)
	}

	s.logOperation(
		ctx,
		logMsgStatementExecuted,
		logAttrStatement, string(name),
		logAttrRowsAffected, rowsAffected,
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	return rowsAffected, nil
}

// Query executes a statement and returns its rows as a lazy stream. The caller must close the stream.
func (s *Store) Query(ctx context.Context, name catalog.StatementName, params catalog.Params) (catalog.RowStream, error) {
	sqlQuery, args, err := s.prepare(ctx, name, catalog.KindQuery, params)
	if err != nil {
		return nil, err
	}

	stream, err := s.query(ctx, name, sqlQuery, args)
	if err != nil {
		return nil, err
	}

	return stream, nil
}

// Get executes a statement and returns its first row, if any.
func (s *Store) Get(ctx context.Context, name catalog.StatementName, params catalog.Params) (catalog.Row, bool, error) {
	sqlQuery, args, err := s.prepare(ctx, name, catalog.KindGet, params)
	if err != nil {
		return nil, false, err
	}

	stream, err := s.query(ctx, name, sqlQuery, args)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = stream.Close() }()

	if !stream.Next() {
		if streamErr := stream.Err(); streamErr != nil {
			return nil, false, streamErr
		}

		return nil, false, nil
	}

	return stream.Row(), true, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) prepare(
	ctx context.Context,
	name catalog.StatementName,
	kind catalog.StatementKind,
	params catalog.Params,
) (string, []any, error) {

	if err := catalog.CheckKind(name, kind); err != nil {
		return "", nil, err
	}

	sqlQuery, args, err := Render(s.tableName, name, params)
	if err != nil {
		s.logError(ctx, logMsgBuildStatementFailed, err, logAttrStatement, string(name))
		return "", nil, err
	}

	return sqlQuery, args, nil
}

func (s *Store) query(ctx context.Context, name catalog.StatementName, sqlQuery string, args []any) (*rowStream, error) {
	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logStatementWithDuration(ctx, sqlQuery, string(name), duration)

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrStatement, string(name), logAttrQuery, sqlQuery)

		return nil, fmt.Errorf("%w: %w", catalog.ErrStatementExecutionFailed, queryErr)
	}

	return &rowStream{ctx: ctx, store: s, rows: rows}, nil
}

// rowStream adapts adapters.DBRows to catalog.RowStream.
type rowStream struct {
	ctx     context.Context
	store   *Store
	rows    adapters.DBRows
	current catalog.Row
	err     error
	closed  bool
}

func (r *rowStream) Next() bool {
	if r.err != nil || r.closed {
		return false
	}

	if !r.rows.Next() {
		r.current = nil
		return false
	}

	values, scanErr := r.rows.Values()
	if scanErr != nil {
		r.store.logError(r.ctx, logMsgScanRowFailed, scanErr)
		r.err = fmt.Errorf("%w: %w", catalog.ErrScanningRowFailed, scanErr)
		r.current = nil

		return false
	}

	r.current = values

	return true
}

func (r *rowStream) Row() catalog.Row {
	return r.current
}

func (r *rowStream) Err() error {
	if r.err != nil {
		return r.err
	}

	if rowsErr := r.rows.Err(); rowsErr != nil {
		return fmt.Errorf("%w: %w", catalog.ErrStatementExecutionFailed, rowsErr)
	}

	return nil
}

func (r *rowStream) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	if closeErr := r.rows.Close(); closeErr != nil {
		r.store.logWarn(r.ctx, logMsgCloseRowsFailed, closeErr)
		return closeErr
	}

	return nil
}
