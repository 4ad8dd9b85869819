package observable

import (
	"context"
	"time"

	"github.com/eroberer/bookcatalog/catalog"
)

// ExecutorWrapper provides observability instrumentation for any catalog.StatementExecutor.
// It wraps the executor and adds metrics, tracing, and logging around every statement.
type ExecutorWrapper struct {
	next             catalog.StatementExecutor
	metricsCollector catalog.MetricsCollector
	tracingCollector catalog.TracingCollector
	contextualLogger catalog.ContextualLogger
	logger           catalog.Logger
}

// Option defines a functional option for configuring ExecutorWrapper.
type Option func(*ExecutorWrapper) error

// NewExecutorWrapper creates a new observable wrapper around the executor.
func NewExecutorWrapper(next catalog.StatementExecutor, opts ...Option) (*ExecutorWrapper, error) {
	if next == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	wrapper := &ExecutorWrapper{next: next}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// WithMetrics sets the metrics collector for the ExecutorWrapper.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(w *ExecutorWrapper) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the ExecutorWrapper.
func WithTracing(collector catalog.TracingCollector) Option {
	return func(w *ExecutorWrapper) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the ExecutorWrapper.
func WithContextualLogging(logger catalog.ContextualLogger) Option {
	return func(w *ExecutorWrapper) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the ExecutorWrapper.
func WithLogging(logger catalog.Logger) Option {
	return func(w *ExecutorWrapper) error {
		w.logger = logger
		return nil
	}
}

// Exec instruments catalog.StatementExecutor.Exec.
func (w *ExecutorWrapper) Exec(ctx context.Context, name catalog.StatementName, params catalog.Params) (int64, error) {
	ctx, finish := w.start(ctx, name)

	affected, err := w.next.Exec(ctx, name, params)
	finish(err)

	return affected, err
}

// Query instruments catalog.StatementExecutor.Query. The measurement covers opening the stream and
// iterating it; it ends when the caller closes the stream, with the error of Err or Close as outcome.
func (w *ExecutorWrapper) Query(ctx context.Context, name catalog.StatementName, params catalog.Params) (catalog.RowStream, error) {
	ctx, finish := w.start(ctx, name)

	stream, err := w.next.Query(ctx, name, params)
	if err != nil {
		finish(err)
		return nil, err
	}

	return &instrumentedStream{RowStream: stream, finish: finish}, nil
}

// Get instruments catalog.StatementExecutor.Get.
func (w *ExecutorWrapper) Get(ctx context.Context, name catalog.StatementName, params catalog.Params) (catalog.Row, bool, error) {
	ctx, finish := w.start(ctx, name)

	row, found, err := w.next.Get(ctx, name, params)
	finish(err)

	return row, found, err
}

// Ping delegates to the wrapped executor when it can be pinged.
func (w *ExecutorWrapper) Ping(ctx context.Context) error {
	if pinger, ok := w.next.(catalog.Pinger); ok {
		return pinger.Ping(ctx)
	}

	return nil
}

func (w *ExecutorWrapper) start(ctx context.Context, name catalog.StatementName) (context.Context, func(error)) {
	statement := string(name)
	started := time.Now()
	ctx, span := startSpan(ctx, w.tracingCollector, statement)
	logStart(ctx, w.logger, w.contextualLogger, statement)

	return ctx, func(err error) {
		duration := time.Since(started)
		status := statusOf(err)

		recordMetrics(ctx, w.metricsCollector, statement, status, duration)
		finishSpan(w.tracingCollector, span, status, duration, err)
		logOutcome(ctx, w.logger, w.contextualLogger, statement, status, duration, err)
	}
}

// instrumentedStream finishes the measurement of a Query once, on the first Close.
type instrumentedStream struct {
	catalog.RowStream
	finish func(error)
	closed bool
}

func (s *instrumentedStream) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	closeErr := s.RowStream.Close()

	outcome := s.RowStream.Err()
	if outcome == nil {
		outcome = closeErr
	}

	s.finish(outcome)

	return closeErr
}
