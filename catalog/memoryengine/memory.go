// Package memoryengine provides an in-memory implementation of catalog.StatementExecutor.
//
// It mirrors the observable behavior of the PostgreSQL engine closely enough to run the
// initializer and the HTTP dispatcher without a database: creating an existing table fails,
// statements against a missing table fail, isbn is unique and rows keep insertion order.
package memoryengine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/eroberer/bookcatalog/catalog"
)

var (
	// ErrTableAlreadyExists mirrors PostgreSQL rejecting a second CREATE TABLE.
	ErrTableAlreadyExists = errors.New("table already exists")

	// ErrTableDoesNotExist mirrors PostgreSQL rejecting statements against a missing table.
	ErrTableDoesNotExist = errors.New("table does not exist")

	// ErrDuplicateKey mirrors a primary key violation on isbn.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// Store is an in-memory book table. It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	tableCreated bool
	books        []catalog.Book
}

// Option configures a Store.
type Option func(*Store)

// WithExistingTable starts the Store with the table already created and holding the given books.
func WithExistingTable(books ...catalog.Book) Option {
	return func(s *Store) {
		s.tableCreated = true
		s.books = append(s.books, books...)
	}
}

// NewStore creates an empty Store without a table.
func NewStore(options ...Option) *Store {
	s := &Store{}

	for _, option := range options {
		option(s)
	}

	return s
}

// Exec executes a DDL or DML statement and returns the affected-row count.
func (s *Store) Exec(_ context.Context, name catalog.StatementName, params catalog.Params) (int64, error) {
	if err := catalog.CheckKind(name, catalog.KindDML); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case catalog.CreateBookTable:
		if s.tableCreated {
			return 0, executionFailed(ErrTableAlreadyExists)
		}

		s.tableCreated = true

		return 0, nil

	case catalog.InsertBook:
		return s.insert(params)

	case catalog.UpdateBookByISBN:
		return s.update(params)

	case catalog.DeleteBookByISBN:
		return s.delete(params)

	default:
		return 0, fmt.Errorf("%w: %q", catalog.ErrUnknownStatement, name)
	}
}

// Query returns a snapshot of the rows. Only SelectAllBook is a query statement.
func (s *Store) Query(_ context.Context, name catalog.StatementName, _ catalog.Params) (catalog.RowStream, error) {
	if err := catalog.CheckKind(name, catalog.KindQuery); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.tableCreated {
		return nil, executionFailed(ErrTableDoesNotExist)
	}

	rows := make([]catalog.Row, 0, len(s.books))
	for _, book := range s.books {
		rows = append(rows, toRow(book))
	}

	return catalog.NewSliceRowStream(rows), nil
}

// Get returns the row of the book with the given isbn, if any.
func (s *Store) Get(_ context.Context, name catalog.StatementName, params catalog.Params) (catalog.Row, bool, error) {
	if err := catalog.CheckKind(name, catalog.KindGet); err != nil {
		return nil, false, err
	}

	isbn, err := params.ResolveString(catalog.ColISBN, 0)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.tableCreated {
		return nil, false, executionFailed(ErrTableDoesNotExist)
	}

	idx := s.indexOf(isbn)
	if idx < 0 {
		return nil, false, nil
	}

	return toRow(s.books[idx]), true, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Books returns a copy of the stored books in insertion order.
func (s *Store) Books() []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.books)
}

// TableCreated reports whether CreateBookTable has been executed.
func (s *Store) TableCreated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tableCreated
}

func (s *Store) insert(params catalog.Params) (int64, error) {
	book, err := catalog.BookFromParams(params)
	if err != nil {
		return 0, err
	}

	if !s.tableCreated {
		return 0, executionFailed(ErrTableDoesNotExist)
	}

	if s.indexOf(book.ISBN) >= 0 {
		return 0, executionFailed(fmt.Errorf("%w: isbn %q", ErrDuplicateKey, book.ISBN))
	}

	s.books = append(s.books, book)

	return 1, nil
}

func (s *Store) update(params catalog.Params) (int64, error) {
	book, err := catalog.BookFromParams(params)
	if err != nil {
		return 0, err
	}

	oldISBN, err := params.ResolveString(catalog.ParamOldISBN, catalog.OldISBNPosition)
	if err != nil {
		return 0, err
	}

	if !s.tableCreated {
		return 0, executionFailed(ErrTableDoesNotExist)
	}

	idx := s.indexOf(oldISBN)
	if idx < 0 {
		return 0, nil
	}

	if book.ISBN != oldISBN && s.indexOf(book.ISBN) >= 0 {
		return 0, executionFailed(fmt.Errorf("%w: isbn %q", ErrDuplicateKey, book.ISBN))
	}

	s.books[idx] = book

	return 1, nil
}

func (s *Store) delete(params catalog.Params) (int64, error) {
	isbn, err := params.ResolveString(catalog.ColISBN, 0)
	if err != nil {
		return 0, err
	}

	if !s.tableCreated {
		return 0, executionFailed(ErrTableDoesNotExist)
	}

	idx := s.indexOf(isbn)
	if idx < 0 {
		return 0, nil
	}

	s.books = slices.Delete(s.books, idx, idx+1)

	return 1, nil
}

func (s *Store) indexOf(isbn string) int {
	return slices.IndexFunc(s.books, func(b catalog.Book) bool {
		return b.ISBN == isbn
	})
}

func toRow(book catalog.Book) catalog.Row {
	return catalog.Row(catalog.ToNamedParameters(book))
}

func executionFailed(err error) error {
	return fmt.Errorf("%w: %w", catalog.ErrStatementExecutionFailed, err)
}
