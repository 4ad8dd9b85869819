// Package catalog provides the core abstractions of the book catalog:
// the Book value, named statements, statement parameters, row access,
// the record mapper and the common error definitions.
//
// Storage engines (postgresengine, memoryengine) implement StatementExecutor
// and resolve statements by their logical name rather than by inline SQL.
//
// Key types:
//   - Book: the catalog record, addressed by its ISBN
//   - StatementName: the logical key of a parameterized statement
//   - Params: indexed or named statement parameters
//   - Row / RowStream: single rows and lazy row sequences
//
// Common usage pattern:
//
//	count, err := executor.Exec(ctx, catalog.InsertBook, catalog.IndexedParams(catalog.ToIndexedParameters(book)...))
//	if err != nil {
//		// handle error
//	}
//
//	stream, err := executor.Query(ctx, catalog.SelectAllBook, catalog.NoParams())
//	books, err := catalog.CollectBooks(stream)
package catalog
