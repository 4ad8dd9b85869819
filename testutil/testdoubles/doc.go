// Package testdoubles provides spies and stubs shared by the tests of the book catalog.
//
// The spies implement the observability interfaces of the catalog package and capture every call
// so tests can assert on logs, metrics and spans. FailingExecutor lets tests drive the error paths
// of components that depend on a catalog.StatementExecutor.
package testdoubles
