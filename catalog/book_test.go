package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eroberer/bookcatalog/catalog"
)

func ptr(s string) *string { return &s }

func Test_BookRecord_Book_Complete(t *testing.T) {
	// arrange
	record := catalog.BookRecord{Name: ptr("Saatleri Ayarlama Enstitüsü"), Author: ptr("Ahmet Hamdi Tanpınar"), ISBN: ptr("9789750803000"), Language: ptr("")}

	// act
	book, err := record.Book()

	// assert
	require.NoError(t, err)
	assert.Equal(t, catalog.Book{Name: "Saatleri Ayarlama Enstitüsü", Author: "Ahmet Hamdi Tanpınar", ISBN: "9789750803000"}, book)
}

func Test_BookRecord_Book_RejectsIncompleteRecords(t *testing.T) {
	testCases := []struct {
		name   string
		record catalog.BookRecord
	}{
		{name: "no fields", record: catalog.BookRecord{}},
		{name: "missing name", record: catalog.BookRecord{Author: ptr("a"), ISBN: ptr("1"), Language: ptr("l")}},
		{name: "missing isbn", record: catalog.BookRecord{Name: ptr("n"), Author: ptr("a"), Language: ptr("l")}},
		{name: "empty isbn", record: catalog.BookRecord{Name: ptr("n"), Author: ptr("a"), ISBN: ptr(""), Language: ptr("l")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.record.Book()

			assert.ErrorIs(t, err, catalog.ErrIncompleteBook)
		})
	}
}
