// Command bookservice serves the book catalog over HTTP.
//
// It reads its configuration from the environment (optionally preloaded from a .env file),
// connects to the store selected by DB_ADAPTER, creates and seeds the book table and then
// serves /books until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eroberer/bookcatalog/catalog/initializer"
	"github.com/eroberer/bookcatalog/config"
	"github.com/eroberer/bookcatalog/httpapi"
)

const (
	serviceName       = "bookcatalog"
	serviceVersion    = "1.0.0"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type flags struct {
	addr    string
	envFile string
	adapter string
}

func main() {
	if err := run(); err != nil {
		slog.Error("bookservice failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.addr, "addr", "", "HTTP listen address, overrides HTTP_ADDR")
	flag.StringVar(&f.envFile, "env-file", ".env", "optional .env file loaded before reading the environment")
	flag.StringVar(&f.adapter, "adapter", "", "database adapter (pgx, sql, sqlx, memory), overrides DB_ADAPTER")
	flag.Parse()

	return f
}

func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return config.Config{}, err
	}

	if f.addr != "" {
		cfg.HTTPAddr = f.addr
	}

	if f.adapter != "" {
		if err := cfg.SetAdapter(f.adapter); err != nil {
			return config.Config{}, err
		}
	}

	return cfg, nil
}

func run() error {
	cfg, err := loadConfig(parseFlags())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := newObservability(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer obs.shutdown(logger)

	executor, closeStore, err := openStore(ctx, cfg, logger, obs)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.DBAdapter, err)
	}
	defer closeStore()

	logger.Info("store opened", "adapter", cfg.DBAdapter, "table", cfg.BooksTable)

	seeder, err := initializer.New(
		executor,
		initializer.WithSeedFile(cfg.SeedFile),
		initializer.WithLogger(logger),
		initializer.WithContextualLogger(obs.contextualLogger),
		initializer.WithMetrics(obs.metricsCollector),
	)
	if err != nil {
		return err
	}
	seeder.Init(ctx)

	serviceOptions := []httpapi.Option{httpapi.WithLogger(logger)}
	if obs.contextualLogger != nil {
		serviceOptions = append(serviceOptions, httpapi.WithContextualLogger(obs.contextualLogger))
	}
	if cfg.StrictRowMatch {
		serviceOptions = append(serviceOptions, httpapi.WithStrictRowMatch())
	}

	service, err := httpapi.NewBookService(executor, serviceOptions...)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(service, httpapi.WithAccessLog(os.Stdout), httpapi.WithRecoveryLogger(logger)),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return serve(ctx, server, logger)
}

func serve(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil { //nolint:contextcheck // the signal context is already done
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}
