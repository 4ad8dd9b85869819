package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/memoryengine"
	"github.com/eroberer/bookcatalog/catalog/observable"
	"github.com/eroberer/bookcatalog/catalog/oteladapters"
	"github.com/eroberer/bookcatalog/testutil/testdoubles"
)

func Test_ObservableExecutor_WithOTelAdapters_CorrelatesLogsWithSpans(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracing := oteladapters.NewTracingCollector(provider.Tracer("test"))
	metrics, reader := newMetricsCollector()
	logSpy := testdoubles.NewContextualLoggerSpy(true)

	wrapper, err := observable.NewExecutorWrapper(
		memoryengine.NewStore(),
		observable.WithTracing(tracing),
		observable.WithMetrics(metrics),
		observable.WithContextualLogging(logSpy),
	)
	require.NoError(t, err)

	// act
	_, execErr := wrapper.Exec(context.Background(), catalog.CreateBookTable, catalog.NoParams())

	// assert
	require.NoError(t, execErr)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, observable.SpanNameStatement, spans[0].Name)

	records := logSpy.GetRecords()
	require.NotEmpty(t, records)
	for _, record := range records {
		spanCtx := spans[0].SpanContext
		assert.Equal(t, spanCtx.TraceID(), traceIDOf(record.Context), "log %q should carry the span", record.Message)
	}

	findMetric(t, collect(t, reader), observable.StatementCallsMetric)
}

func traceIDOf(ctx context.Context) oteltrace.TraceID {
	return oteltrace.SpanContextFromContext(ctx).TraceID()
}
