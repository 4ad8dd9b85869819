package initializer

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/eroberer/bookcatalog/catalog"
)

//go:embed books.json
var bundledSeed []byte

// ErrInvalidSeedRecord is returned when the seed dataset is not a JSON array of complete books.
var ErrInvalidSeedRecord = errors.New("invalid seed record")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BundledSeed returns the seed dataset shipped with the binary.
func BundledSeed() ([]catalog.Book, error) {
	return ParseSeed(bundledSeed)
}

// LoadSeedFile reads a seed dataset from a JSON file.
func LoadSeedFile(path string) ([]catalog.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	return ParseSeed(data)
}

// ParseSeed decodes a JSON array of books. Every record must carry all four fields as strings.
func ParseSeed(data []byte) ([]catalog.Book, error) {
	var records []catalog.BookRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedRecord, err)
	}

	books := make([]catalog.Book, 0, len(records))

	for i, record := range records {
		book, err := record.Book()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidSeedRecord, i, err)
		}

		books = append(books, book)
	}

	return books, nil
}
