package catalog

import "fmt"

// Column names of the book table, also used as named parameter keys.
const (
	ColName     = "name"
	ColAuthor   = "author"
	ColISBN     = "isbn"
	ColLanguage = "language"

	// ParamOldISBN is the lookup key of update-book-by-isbn.
	ParamOldISBN = "old_isbn"
)

// Book is a catalog record. ISBN is the only key used to address a single Book.
type Book struct {
	Name     string `json:"name"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Language string `json:"language"`
}

// Books is an alias type for a slice of Book
type Books = []Book

// BookRecord is the decoding target for externally supplied books. A nil field was absent from the input.
type BookRecord struct {
	Name     *string `json:"name"`
	Author   *string `json:"author"`
	ISBN     *string `json:"isbn"`
	Language *string `json:"language"`
}

// Book returns the record as a Book. Every field must be present and the isbn must not be empty.
func (r BookRecord) Book() (Book, error) {
	for _, field := range []struct {
		column string
		value  *string
	}{
		{ColName, r.Name},
		{ColAuthor, r.Author},
		{ColISBN, r.ISBN},
		{ColLanguage, r.Language},
	} {
		if field.value == nil {
			return Book{}, fmt.Errorf("%w: missing %s", ErrIncompleteBook, field.column)
		}
	}

	if *r.ISBN == "" {
		return Book{}, fmt.Errorf("%w: empty %s", ErrIncompleteBook, ColISBN)
	}

	return Book{Name: *r.Name, Author: *r.Author, ISBN: *r.ISBN, Language: *r.Language}, nil
}
