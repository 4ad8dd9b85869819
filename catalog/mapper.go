package catalog

import "fmt"

// MappingError reports a row that cannot be converted into a Book.
type MappingError struct {
	Column string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: column %q %s", ErrMappingFailed.Error(), e.Column, e.Reason)
}

// Unwrap makes errors.Is(err, ErrMappingFailed) work.
func (e *MappingError) Unwrap() error {
	return ErrMappingFailed
}

// ToIndexedParameters returns the positional parameters of a Book in the order name, author, isbn, language.
func ToIndexedParameters(book Book) []any {
	return []any{book.Name, book.Author, book.ISBN, book.Language}
}

// ToNamedParameters returns the named parameters of a Book.
func ToNamedParameters(book Book) map[string]any {
	return map[string]any{
		ColName:     book.Name,
		ColAuthor:   book.Author,
		ColISBN:     book.ISBN,
		ColLanguage: book.Language,
	}
}

// BookFromRow converts a row into a Book.
// It fails with a *MappingError if a required column is absent or not a string.
func BookFromRow(row Row) (Book, error) {
	name, err := stringColumn(row, ColName)
	if err != nil {
		return Book{}, err
	}

	author, err := stringColumn(row, ColAuthor)
	if err != nil {
		return Book{}, err
	}

	isbn, err := stringColumn(row, ColISBN)
	if err != nil {
		return Book{}, err
	}

	language, err := stringColumn(row, ColLanguage)
	if err != nil {
		return Book{}, err
	}

	return Book{Name: name, Author: author, ISBN: isbn, Language: language}, nil
}

// CollectBooks drains a RowStream into Books and closes it.
func CollectBooks(stream RowStream) (books Books, err error) {
	defer func() {
		if closeErr := stream.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrScanningRowFailed, closeErr)
		}
	}()

	books = make(Books, 0)

	for stream.Next() {
		book, mapErr := BookFromRow(stream.Row())
		if mapErr != nil {
			return nil, mapErr
		}

		books = append(books, book)
	}

	if streamErr := stream.Err(); streamErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRowFailed, streamErr)
	}

	return books, nil
}

func stringColumn(row Row, column string) (string, error) {
	raw, ok := row.Column(column)
	if !ok {
		return "", &MappingError{Column: column, Reason: "is absent"}
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", &MappingError{Column: column, Reason: "is null"}
	default:
		return "", &MappingError{Column: column, Reason: fmt.Sprintf("has unsupported type %T", raw)}
	}
}

// ToUpdateParameters returns the positional parameters of UpdateBookByISBN:
// the new field values followed by the isbn of the row to replace.
func ToUpdateParameters(book Book, oldISBN string) []any {
	return append(ToIndexedParameters(book), oldISBN)
}
