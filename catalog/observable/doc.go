// Package observable decorates a catalog.StatementExecutor with metrics, tracing and contextual logging.
//
// The wrapper is pure decoration: it never changes results or errors of the wrapped executor.
// Each execution is classified as success, error, canceled or timeout and recorded with the
// statement name as label.
package observable
