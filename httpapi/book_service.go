package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/eroberer/bookcatalog/catalog"
)

const (
	pathVarISBN     = "isbn"
	maxBodyBytes    = 1 << 20
	contentTypeJSON = "application/json"

	msgInserted        = "Inserted: %d values"
	msgUpdated         = "Updated: %d values"
	msgDeleted         = "Deleted: %d values"
	msgNotFound        = "Book %s not found"
	msgInvalidPayload  = "invalid book payload: %s"
	logMsgStoreFailed  = "book store operation failed"
	logMsgMappingError = "stored book could not be mapped"
	logMsgBadRequest   = "rejected book payload"
	logMsgWriteFailed  = "writing response failed"
	logAttrError       = "error"
	logAttrOperation   = "operation"
	logAttrISBN        = "isbn"
	logAttrRequestID   = "request_id"
)

var (
	errEmptyBody = errors.New("empty body")

	encodingFailedEnvelope = []byte(`{"status":"FAIL","error":"encoding response failed"}`)
)

// BookService is the request dispatcher of the book catalog. It maps each route to a named statement
// and turns the outcome into a Response envelope with the matching HTTP status.
type BookService struct {
	executor         catalog.StatementExecutor
	strictRowMatch   bool
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
}

// Option defines a functional option for configuring a BookService.
type Option func(*BookService) error

// WithStrictRowMatch makes update and delete answer 404 when no row matched the isbn.
func WithStrictRowMatch() Option {
	return func(s *BookService) error {
		s.strictRowMatch = true
		return nil
	}
}

// WithLogger sets the logger for the BookService.
func WithLogger(logger catalog.Logger) Option {
	return func(s *BookService) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the BookService.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(s *BookService) error {
		s.contextualLogger = logger
		return nil
	}
}

// NewBookService creates a BookService executing statements with executor.
func NewBookService(executor catalog.StatementExecutor, options ...Option) (*BookService, error) {
	if executor == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	s := &BookService{executor: executor}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Register adds the book routes to the router.
func (s *BookService) Register(r *mux.Router) {
	r.Methods(http.MethodGet).Path("/books").HandlerFunc(s.List)
	r.Methods(http.MethodPost).Path("/books").HandlerFunc(s.Insert)
	r.Methods(http.MethodGet).Path("/books/{isbn}").HandlerFunc(s.Get)
	r.Methods(http.MethodPut).Path("/books/{isbn}").HandlerFunc(s.Update)
	r.Methods(http.MethodDelete).Path("/books/{isbn}").HandlerFunc(s.Delete)
}

// List answers all books.
func (s *BookService) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stream, err := s.executor.Query(ctx, catalog.SelectAllBook, catalog.NoParams())
	if err != nil {
		s.failInternal(ctx, w, string(catalog.SelectAllBook), err)
		return
	}

	books, err := catalog.CollectBooks(stream)
	if err != nil {
		s.failInternal(ctx, w, string(catalog.SelectAllBook), err)
		return
	}

	s.write(ctx, w, http.StatusOK, Success(books))
}

// Get answers the book stored under the isbn of the path, or 404.
func (s *BookService) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isbn := mux.Vars(r)[pathVarISBN]

	row, found, err := s.executor.Get(ctx, catalog.SelectBookByISBN, catalog.NamedParams(map[string]any{catalog.ColISBN: isbn}))
	if err != nil {
		s.failInternal(ctx, w, string(catalog.SelectBookByISBN), err)
		return
	}

	if !found {
		s.write(ctx, w, http.StatusNotFound, Fail[catalog.Book](fmt.Sprintf(msgNotFound, isbn)))
		return
	}

	book, err := catalog.BookFromRow(row)
	if err != nil {
		s.logError(ctx, logMsgMappingError, logAttrError, err.Error(), logAttrISBN, isbn)
		s.write(ctx, w, http.StatusInternalServerError, Fail[catalog.Book](err.Error()))

		return
	}

	s.write(ctx, w, http.StatusOK, Success(book))
}

// Insert stores the book of the request body.
func (s *BookService) Insert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	book, ok := s.decodeBook(w, r)
	if !ok {
		return
	}

	affected, err := s.executor.Exec(ctx, catalog.InsertBook, catalog.IndexedParams(catalog.ToIndexedParameters(book)...))
	if err != nil {
		s.failInternal(ctx, w, string(catalog.InsertBook), err)
		return
	}

	s.write(ctx, w, http.StatusOK, Success(fmt.Sprintf(msgInserted, affected)))
}

// Update replaces the book stored under the isbn of the path with the book of the request body.
func (s *BookService) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	oldISBN := mux.Vars(r)[pathVarISBN]

	book, ok := s.decodeBook(w, r)
	if !ok {
		return
	}

	params := catalog.ToNamedParameters(book)
	params[catalog.ParamOldISBN] = oldISBN

	affected, err := s.executor.Exec(ctx, catalog.UpdateBookByISBN, catalog.NamedParams(params))
	if err != nil {
		s.failInternal(ctx, w, string(catalog.UpdateBookByISBN), err)
		return
	}

	if affected == 0 && s.strictRowMatch {
		s.write(ctx, w, http.StatusNotFound, Fail[string](fmt.Sprintf(msgNotFound, oldISBN)))
		return
	}

	s.write(ctx, w, http.StatusOK, Success(fmt.Sprintf(msgUpdated, affected)))
}

// Delete removes the book stored under the isbn of the path.
func (s *BookService) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isbn := mux.Vars(r)[pathVarISBN]

	affected, err := s.executor.Exec(ctx, catalog.DeleteBookByISBN, catalog.NamedParams(map[string]any{catalog.ColISBN: isbn}))
	if err != nil {
		s.failInternal(ctx, w, string(catalog.DeleteBookByISBN), err)
		return
	}

	if affected == 0 && s.strictRowMatch {
		s.write(ctx, w, http.StatusNotFound, Fail[string](fmt.Sprintf(msgNotFound, isbn)))
		return
	}

	s.write(ctx, w, http.StatusOK, Success(fmt.Sprintf(msgDeleted, affected)))
}

func (s *BookService) decodeBook(w http.ResponseWriter, r *http.Request) (catalog.Book, bool) {
	book, err := readBook(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logDebug(r.Context(), logMsgBadRequest, logAttrError, err.Error())
		s.write(r.Context(), w, http.StatusBadRequest, Fail[string](fmt.Sprintf(msgInvalidPayload, err.Error())))

		return catalog.Book{}, false
	}

	return book, true
}

// readBook decodes exactly one complete book. Trailing data after the JSON value is rejected.
func readBook(body io.Reader) (catalog.Book, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return catalog.Book{}, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return catalog.Book{}, errEmptyBody
	}

	var record catalog.BookRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return catalog.Book{}, err
	}

	return record.Book()
}

func (s *BookService) failInternal(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	s.logError(ctx, logMsgStoreFailed, logAttrOperation, operation, logAttrError, err.Error())
	s.write(ctx, w, http.StatusInternalServerError, Fail[any](err.Error()))
}

func (s *BookService) write(ctx context.Context, w http.ResponseWriter, status int, response any) {
	if err := writeJSON(w, status, response); err != nil {
		s.logError(ctx, logMsgWriteFailed, logAttrError, err.Error())
	}
}

// writeJSON writes a JSON response with the given status. If v cannot be encoded a fixed FAIL envelope
// with status 500 is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", contentTypeJSON)

	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodingFailedEnvelope)

		return err
	}

	w.WriteHeader(status)
	_, err = w.Write(data)

	return err
}

func (s *BookService) logDebug(ctx context.Context, msg string, args ...any) {
	args = withRequestID(ctx, args)

	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (s *BookService) logError(ctx context.Context, msg string, args ...any) {
	args = withRequestID(ctx, args)

	if s.logger != nil {
		s.logger.Error(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, args...)
	}
}

func withRequestID(ctx context.Context, args []any) []any {
	if id := RequestIDFromContext(ctx); id != "" {
		return append(args, logAttrRequestID, id)
	}

	return args
}
