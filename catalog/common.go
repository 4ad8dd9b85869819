package catalog

import "errors"

var (
	// ErrNilDatabaseConnection is returned when an engine is built without a database handle.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when an empty table name is configured.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrUnknownStatement is returned when a statement name is not part of the catalog.
	ErrUnknownStatement = errors.New("unknown statement")

	// ErrStatementKindMismatch is returned when a statement is executed through the wrong entry point,
	// e.g. a DML statement through Query.
	ErrStatementKindMismatch = errors.New("statement kind does not match the execution method")

	// ErrMissingParameter is returned when a statement parameter is absent.
	ErrMissingParameter = errors.New("missing statement parameter")

	// ErrBuildingStatementFailed is returned when the SQL of a statement could not be rendered.
	ErrBuildingStatementFailed = errors.New("building statement failed")

	// ErrStatementExecutionFailed wraps every failure reported by the store while executing a statement.
	ErrStatementExecutionFailed = errors.New("statement execution failed")

	// ErrScanningRowFailed is returned when a result row could not be read.
	ErrScanningRowFailed = errors.New("scanning database row failed")

	// ErrIncompleteBook is returned when a decoded book record lacks a field or carries an empty isbn.
	ErrIncompleteBook = errors.New("incomplete book record")

	// ErrMappingFailed is the category of every MappingError.
	ErrMappingFailed = errors.New("mapping row to book failed")
)
