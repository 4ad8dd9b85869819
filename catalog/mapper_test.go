package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eroberer/bookcatalog/catalog"
)

func fixtureBook() catalog.Book {
	return catalog.Book{
		Name:     "Saatleri Ayarlama Enstitüsü",
		Author:   "Ahmet Hamdi Tanpınar",
		ISBN:     "9759952378",
		Language: "Türkçe",
	}
}

func Test_ToIndexedParameters_KeepsColumnOrder(t *testing.T) {
	// act
	params := catalog.ToIndexedParameters(fixtureBook())

	// assert
	assert.Equal(t, []any{"Saatleri Ayarlama Enstitüsü", "Ahmet Hamdi Tanpınar", "9759952378", "Türkçe"}, params)
}

func Test_ToNamedParameters_ContainsAllFields(t *testing.T) {
	// act
	params := catalog.ToNamedParameters(fixtureBook())

	// assert
	assert.Len(t, params, 4)
	assert.Equal(t, "Saatleri Ayarlama Enstitüsü", params["name"])
	assert.Equal(t, "Ahmet Hamdi Tanpınar", params["author"])
	assert.Equal(t, "9759952378", params["isbn"])
	assert.Equal(t, "Türkçe", params["language"])
}

func Test_BookFromRow_RoundTripsNamedParameters(t *testing.T) {
	// arrange
	row := catalog.Row(catalog.ToNamedParameters(fixtureBook()))

	// act
	book, err := catalog.BookFromRow(row)

	// assert
	require.NoError(t, err)
	assert.Equal(t, fixtureBook(), book)
}

func Test_BookFromRow_AcceptsByteValues(t *testing.T) {
	// arrange
	row := catalog.Row{
		"name":     []byte("Kürk Mantolu Madonna"),
		"author":   []byte("Sabahattin Ali"),
		"isbn":     []byte("6053603538"),
		"language": []byte("Türkçe"),
	}

	// act
	book, err := catalog.BookFromRow(row)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Kürk Mantolu Madonna", book.Name)
	assert.Equal(t, "6053603538", book.ISBN)
}

func Test_BookFromRow_Fails_WithMappingError(t *testing.T) {
	testCases := []struct {
		name           string
		row            catalog.Row
		expectedColumn string
	}{
		{
			name:           "absent column",
			row:            catalog.Row{"name": "n", "author": "a", "language": "l"},
			expectedColumn: "isbn",
		},
		{
			name:           "null column",
			row:            catalog.Row{"name": nil, "author": "a", "isbn": "i", "language": "l"},
			expectedColumn: "name",
		},
		{
			name:           "wrong type",
			row:            catalog.Row{"name": "n", "author": "a", "isbn": "i", "language": 42},
			expectedColumn: "language",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := catalog.BookFromRow(tc.row)

			// assert
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrMappingFailed)

			var mappingErr *catalog.MappingError
			require.True(t, errors.As(err, &mappingErr))
			assert.Equal(t, tc.expectedColumn, mappingErr.Column)
		})
	}
}

func Test_CollectBooks_MapsEveryRow(t *testing.T) {
	// arrange
	other := catalog.Book{Name: "İnce Memed", Author: "Yaşar Kemal", ISBN: "9754587175", Language: "Türkçe"}
	stream := catalog.NewSliceRowStream([]catalog.Row{
		catalog.ToNamedParameters(fixtureBook()),
		catalog.ToNamedParameters(other),
	})

	// act
	books, err := catalog.CollectBooks(stream)

	// assert
	require.NoError(t, err)
	assert.Equal(t, catalog.Books{fixtureBook(), other}, books)
}

func Test_CollectBooks_ReturnsEmptySlice_ForEmptyStream(t *testing.T) {
	// act
	books, err := catalog.CollectBooks(catalog.NewSliceRowStream(nil))

	// assert
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func Test_CollectBooks_StopsAtFirstMappingError(t *testing.T) {
	// arrange
	stream := catalog.NewSliceRowStream([]catalog.Row{
		catalog.ToNamedParameters(fixtureBook()),
		{"name": "broken"},
	})

	// act
	books, err := catalog.CollectBooks(stream)

	// assert
	assert.Nil(t, books)
	assert.ErrorIs(t, err, catalog.ErrMappingFailed)
}
