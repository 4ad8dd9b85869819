package postgresengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/postgresengine"
)

func fixtureBook() catalog.Book {
	return catalog.Book{
		Name:     "Tutunamayanlar",
		Author:   "Oğuz Atay",
		ISBN:     "9789754700114",
		Language: "Türkçe",
	}
}

func Test_Render_CreateBookTable_QuotesTheTableName(t *testing.T) {
	// act
	sqlQuery, args, err := postgresengine.Render("library books", catalog.CreateBookTable, catalog.NoParams())

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `CREATE TABLE "library books"`)
	assert.Contains(t, sqlQuery, "isbn VARCHAR(32) PRIMARY KEY")
	assert.Empty(t, args)
}

func Test_Render_InsertBook_WithIndexedParams(t *testing.T) {
	// act
	sqlQuery, args, err := postgresengine.Render(
		"books",
		catalog.InsertBook,
		catalog.IndexedParams(catalog.ToIndexedParameters(fixtureBook())...),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "books" ("name", "author", "isbn", "language") VALUES ($1, $2, $3, $4)`, sqlQuery)
	assert.Equal(t, []any{"Tutunamayanlar", "Oğuz Atay", "9789754700114", "Türkçe"}, args)
}

func Test_Render_InsertBook_WithNamedParams(t *testing.T) {
	// act
	_, args, err := postgresengine.Render(
		"books",
		catalog.InsertBook,
		catalog.NamedParams(catalog.ToNamedParameters(fixtureBook())),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []any{"Tutunamayanlar", "Oğuz Atay", "9789754700114", "Türkçe"}, args)
}

func Test_Render_InsertBook_Fails_WithTooFewParams(t *testing.T) {
	// act
	_, _, err := postgresengine.Render("books", catalog.InsertBook, catalog.IndexedParams("only a name"))

	// assert
	assert.ErrorIs(t, err, catalog.ErrMissingParameter)
}

func Test_Render_SelectAllBook(t *testing.T) {
	// act
	sqlQuery, args, err := postgresengine.Render("books", catalog.SelectAllBook, catalog.NoParams())

	// assert
	require.NoError(t, err)
	assert.Equal(t, `SELECT "name", "author", "isbn", "language" FROM "books"`, sqlQuery)
	assert.Empty(t, args)
}

func Test_Render_SelectBookByISBN(t *testing.T) {
	// act
	sqlQuery, args, err := postgresengine.Render(
		"books",
		catalog.SelectBookByISBN,
		catalog.NamedParams(map[string]any{catalog.ColISBN: "111"}),
	)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "books"`)
	assert.Contains(t, sqlQuery, `"isbn" = $1`)
	assert.Equal(t, []any{"111"}, args)
}

func Test_Render_UpdateBookByISBN_BindsTheOldISBN_InTheWhereClause(t *testing.T) {
	// arrange
	params := catalog.ToNamedParameters(fixtureBook())
	params[catalog.ParamOldISBN] = "111"

	// act
	sqlQuery, args, err := postgresengine.Render("books", catalog.UpdateBookByISBN, catalog.NamedParams(params))

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `UPDATE "books" SET`)
	assert.Contains(t, sqlQuery, `"isbn" = $5`)
	require.Len(t, args, 5)
	assert.ElementsMatch(t, []any{"Tutunamayanlar", "Oğuz Atay", "9789754700114", "Türkçe"}, args[:4])
	assert.Equal(t, "111", args[4])
}

func Test_Render_UpdateBookByISBN_Fails_WithoutOldISBN(t *testing.T) {
	// act
	_, _, err := postgresengine.Render(
		"books",
		catalog.UpdateBookByISBN,
		catalog.NamedParams(catalog.ToNamedParameters(fixtureBook())),
	)

	// assert
	assert.ErrorIs(t, err, catalog.ErrMissingParameter)
	assert.ErrorContains(t, err, catalog.ParamOldISBN)
}

func Test_Render_DeleteBookByISBN(t *testing.T) {
	// act
	sqlQuery, args, err := postgresengine.Render(
		"books",
		catalog.DeleteBookByISBN,
		catalog.NamedParams(map[string]any{catalog.ColISBN: "6053603538"}),
	)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `DELETE FROM "books"`)
	assert.Contains(t, sqlQuery, `"isbn" = $1`)
	assert.Equal(t, []any{"6053603538"}, args)
}

func Test_Render_Fails_ForUnknownStatement(t *testing.T) {
	// act
	_, _, err := postgresengine.Render("books", "truncate-book-table", catalog.NoParams())

	// assert
	assert.ErrorIs(t, err, catalog.ErrUnknownStatement)
}
