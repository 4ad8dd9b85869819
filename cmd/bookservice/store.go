package main

import (
	"context"
	"log/slog"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/memoryengine"
	"github.com/eroberer/bookcatalog/catalog/postgresengine"
	"github.com/eroberer/bookcatalog/config"
)

// openStore connects the executor selected by cfg.DBAdapter. The returned func releases the connection pool.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger, obs observability) (catalog.StatementExecutor, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.BooksTable),
		postgresengine.WithLogger(logger),
	}
	if obs.contextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(obs.contextualLogger))
	}

	var store catalog.StatementExecutor
	closeStore := func() {}

	switch cfg.DBAdapter {
	case config.AdapterMemory:
		store = memoryengine.NewStore()

	case config.AdapterSQL:
		db, err := config.NewSQLDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		closeStore = func() { _ = db.Close() }

		if store, err = postgresengine.NewStoreFromSQLDB(db, options...); err != nil {
			closeStore()
			return nil, nil, err
		}

	case config.AdapterSQLX:
		db, err := config.NewSQLXDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		closeStore = func() { _ = db.Close() }

		if store, err = postgresengine.NewStoreFromSQLX(db, options...); err != nil {
			closeStore()
			return nil, nil, err
		}

	default:
		pool, err := config.NewPGXPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		closeStore = pool.Close

		if store, err = postgresengine.NewStoreFromPGXPool(pool, options...); err != nil {
			closeStore()
			return nil, nil, err
		}
	}

	executor, err := obs.wrap(store)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	return executor, closeStore, nil
}
