// Package pgtesthelpers connects tests to a live PostgreSQL database through the adapter
// selected by ADAPTER_TYPE. Each wrapper owns a uniquely named book table that is dropped on cleanup.
package pgtesthelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eroberer/bookcatalog/catalog/postgresengine"
	"github.com/eroberer/bookcatalog/config"
)

// Adapter type values for ADAPTER_TYPE.
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

const (
	envAdapterType = "ADAPTER_TYPE"
	envTestDSN     = "BOOKCATALOG_TEST_DSN"
	connectTimeout = 3 * time.Second
	testMaxConns   = 5
)

// Wrapper abstracts over the connection types a Store can be built from.
type Wrapper interface {
	Store() *postgresengine.Store
	TableName() string
	Close()
}

type wrapper struct {
	store     *postgresengine.Store
	tableName string
	dropTable func(ctx context.Context, query string) error
	close     func()
}

func (w *wrapper) Store() *postgresengine.Store {
	return w.store
}

func (w *wrapper) TableName() string {
	return w.tableName
}

// Close drops the test table and releases the connection.
func (w *wrapper) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	_ = w.dropTable(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(w.tableName))
	w.close()
}

// TestDSN returns BOOKCATALOG_TEST_DSN or the default test DSN.
func TestDSN() string {
	if dsn := os.Getenv(envTestDSN); dsn != "" {
		return dsn
	}

	return config.PostgresTestDSN()
}

// NewWrapper connects to the test database and creates a Store on a fresh table name.
// The test is skipped when the database is unreachable. Close runs as test cleanup.
func NewWrapper(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	tableName := "books_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	options = append([]postgresengine.Option{postgresengine.WithTableName(tableName)}, options...)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	w, err := connect(ctx, TestDSN(), tableName, options)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	t.Cleanup(w.Close)

	return w
}

func connect(ctx context.Context, dsn, tableName string, options []postgresengine.Option) (*wrapper, error) {
	adapterType := strings.ToLower(os.Getenv(envAdapterType))

	switch adapterType {
	case typePGXPool, "":
		pool, err := config.NewPGXPool(ctx, dsn, testMaxConns)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, err
		}

		return &wrapper{
			store:     store,
			tableName: tableName,
			dropTable: func(ctx context.Context, query string) error {
				_, err := pool.Exec(ctx, query)
				return err
			},
			close: pool.Close,
		}, nil

	case typeSQLDB:
		db, err := config.NewSQLDB(ctx, dsn, testMaxConns)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &wrapper{
			store:     store,
			tableName: tableName,
			dropTable: execWith(db),
			close:     func() { _ = db.Close() },
		}, nil

	case typeSQLXDB:
		db, err := config.NewSQLXDB(ctx, dsn, testMaxConns)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &wrapper{
			store:     store,
			tableName: tableName,
			dropTable: execWith(db.DB),
			close:     func() { _ = db.Close() },
		}, nil

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}
}

func execWith(db *sql.DB) func(ctx context.Context, query string) error {
	return func(ctx context.Context, query string) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
