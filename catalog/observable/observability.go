package observable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eroberer/bookcatalog/catalog"
)

const (
	// StatementDurationMetric tracks statement execution duration (OpenTelemetry-compatible).
	StatementDurationMetric = "catalog_statement_duration_seconds"

	// StatementCallsMetric tracks total statement executions.
	StatementCallsMetric = "catalog_statement_calls_total"

	// SpanNameStatement is the tracing span name for statement executions.
	SpanNameStatement = "catalog.statement"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
	StatusTimeout  = "timeout"

	LogMsgStatementStarted   = "statement started"
	LogMsgStatementCompleted = "statement completed"
	LogMsgStatementFailed    = "statement failed"

	LogAttrStatement  = "statement"
	LogAttrStatus     = "status"
	LogAttrDurationMS = "duration_ms"
	LogAttrError      = "error"
)

func buildLabels(statement, status string) map[string]string {
	return map[string]string{
		LogAttrStatement: statement,
		LogAttrStatus:    status,
	}
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

func toMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

func recordMetrics(ctx context.Context, collector catalog.MetricsCollector, statement, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := buildLabels(statement, status)

	if contextualCollector, ok := collector.(catalog.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, StatementDurationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, StatementCallsMetric, labels)

		return
	}

	collector.RecordDuration(StatementDurationMetric, duration, labels)
	collector.IncrementCounter(StatementCallsMetric, labels)
}

func startSpan(ctx context.Context, collector catalog.TracingCollector, statement string) (context.Context, catalog.SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, SpanNameStatement, map[string]string{LogAttrStatement: statement})
}

func finishSpan(collector catalog.TracingCollector, span catalog.SpanContext, status string, duration time.Duration, err error) {
	if collector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	collector.FinishSpan(span, status, attrs)
}

func logStart(ctx context.Context, logger catalog.Logger, contextualLogger catalog.ContextualLogger, statement string) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, LogMsgStatementStarted, LogAttrStatement, statement)
	} else if logger != nil {
		logger.Debug(LogMsgStatementStarted, LogAttrStatement, statement)
	}
}

func logOutcome(
	ctx context.Context,
	logger catalog.Logger,
	contextualLogger catalog.ContextualLogger,
	statement string,
	status string,
	duration time.Duration,
	err error,
) {
	args := []any{
		LogAttrStatement, statement,
		LogAttrStatus, status,
		LogAttrDurationMS, toMilliseconds(duration),
	}

	if err == nil {
		if contextualLogger != nil {
			contextualLogger.InfoContext(ctx, LogMsgStatementCompleted, args...)
		} else if logger != nil {
			logger.Info(LogMsgStatementCompleted, args...)
		}

		return
	}

	args = append(args, LogAttrError, err.Error())

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgStatementFailed, args...)
	} else if logger != nil {
		logger.Error(LogMsgStatementFailed, args...)
	}
}
