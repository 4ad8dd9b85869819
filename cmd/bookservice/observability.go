package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/observable"
	"github.com/eroberer/bookcatalog/catalog/oteladapters"
	"github.com/eroberer/bookcatalog/config"
)

// observability bundles the optional OpenTelemetry wiring. The zero value means disabled.
type observability struct {
	providers        *config.ObservabilityProviders
	contextualLogger catalog.ContextualLogger
	metricsCollector catalog.MetricsCollector
	tracingCollector catalog.TracingCollector
}

func newObservability(ctx context.Context, cfg config.Config, logger *slog.Logger) (observability, error) {
	if !cfg.ObservabilityEnabled {
		return observability{}, nil
	}

	providers, err := config.NewObservabilityProviders(ctx, cfg.OTLPEndpoint, serviceName, serviceVersion)
	if err != nil {
		return observability{}, fmt.Errorf("creating observability providers: %w", err)
	}

	logger.Info("observability enabled", "otlp_endpoint", cfg.OTLPEndpoint)

	return observability{
		providers:        providers,
		contextualLogger: oteladapters.NewSlogBridgeLogger(serviceName),
		metricsCollector: oteladapters.NewMetricsCollector(otel.Meter(serviceName)),
		tracingCollector: oteladapters.NewTracingCollector(otel.Tracer(serviceName)),
	}, nil
}

// wrap decorates the executor with metrics, tracing and contextual logging when enabled.
func (o observability) wrap(executor catalog.StatementExecutor) (catalog.StatementExecutor, error) {
	if o.providers == nil {
		return executor, nil
	}

	return observable.NewExecutorWrapper(
		executor,
		observable.WithMetrics(o.metricsCollector),
		observable.WithTracing(o.tracingCollector),
		observable.WithContextualLogging(o.contextualLogger),
	)
}

func (o observability) shutdown(logger *slog.Logger) {
	if o.providers == nil {
		return
	}

	if err := o.providers.Shutdown(); err != nil {
		logger.Warn("shutting down observability providers failed", "error", err)
	}
}
