package postgresengine

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/lib/pq"

	"github.com/eroberer/bookcatalog/catalog"
)

const (
	dialectPostgres = "postgres"

	createTableTemplate = `CREATE TABLE %s (
	name VARCHAR(255) NOT NULL,
	author VARCHAR(255) NOT NULL,
	isbn VARCHAR(32) PRIMARY KEY,
	language VARCHAR(64) NOT NULL
)`
)

type statementBuilder func(tableName string, params catalog.Params) (string, []any, error)

// statements is the catalog of named statements.
var statements = map[catalog.StatementName]statementBuilder{
	catalog.CreateBookTable:  buildCreateBookTable,
	catalog.InsertBook:       buildInsertBook,
	catalog.SelectAllBook:    buildSelectAllBook,
	catalog.SelectBookByISBN: buildSelectBookByISBN,
	catalog.UpdateBookByISBN: buildUpdateBookByISBN,
	catalog.DeleteBookByISBN: buildDeleteBookByISBN,
}

// Render returns the SQL and the arguments of a named statement for the given table.
func Render(tableName string, name catalog.StatementName, params catalog.Params) (string, []any, error) {
	build, ok := statements[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", catalog.ErrUnknownStatement, name)
	}

	return build(tableName, params)
}

func buildCreateBookTable(tableName string, _ catalog.Params) (string, []any, error) {
	return fmt.Sprintf(createTableTemplate, pq.QuoteIdentifier(tableName)), nil, nil
}

func buildInsertBook(tableName string, params catalog.Params) (string, []any, error) {
	book, err := catalog.BookFromParams(params)
	if err != nil {
		return "", nil, err
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(tableName).
		Prepared(true).
		Cols(catalog.ColName, catalog.ColAuthor, catalog.ColISBN, catalog.ColLanguage).
		Vals(goqu.Vals(catalog.ToIndexedParameters(book)))

	return toSQL(insertStmt.ToSQL())
}

func buildSelectAllBook(tableName string, _ catalog.Params) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(tableName).
		Prepared(true).
		Select(catalog.ColName, catalog.ColAuthor, catalog.ColISBN, catalog.ColLanguage)

	return toSQL(selectStmt.ToSQL())
}

func buildSelectBookByISBN(tableName string, params catalog.Params) (string, []any, error) {
	isbn, err := params.ResolveString(catalog.ColISBN, 0)
	if err != nil {
		return "", nil, err
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(tableName).
		Prepared(true).
		Select(catalog.ColName, catalog.ColAuthor, catalog.ColISBN, catalog.ColLanguage).
		Where(goqu.C(catalog.ColISBN).Eq(isbn))

	return toSQL(selectStmt.ToSQL())
}

func buildUpdateBookByISBN(tableName string, params catalog.Params) (string, []any, error) {
	book, err := catalog.BookFromParams(params)
	if err != nil {
		return "", nil, err
	}

	oldISBN, err := params.ResolveString(catalog.ParamOldISBN, catalog.OldISBNPosition)
	if err != nil {
		return "", nil, err
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(tableName).
		Prepared(true).
		Set(goqu.Record(catalog.ToNamedParameters(book))).
		Where(goqu.C(catalog.ColISBN).Eq(oldISBN))

	return toSQL(updateStmt.ToSQL())
}

func buildDeleteBookByISBN(tableName string, params catalog.Params) (string, []any, error) {
	isbn, err := params.ResolveString(catalog.ColISBN, 0)
	if err != nil {
		return "", nil, err
	}

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(tableName).
		Prepared(true).
		Where(goqu.C(catalog.ColISBN).Eq(isbn))

	return toSQL(deleteStmt.ToSQL())
}

func toSQL(sqlQuery string, args []any, toSQLErr error) (string, []any, error) {
	if toSQLErr != nil {
		return "", nil, fmt.Errorf("%w: %w", catalog.ErrBuildingStatementFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}
