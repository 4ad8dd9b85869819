package httpapi_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/initializer"
	"github.com/eroberer/bookcatalog/catalog/memoryengine"
	"github.com/eroberer/bookcatalog/httpapi"
	"github.com/eroberer/bookcatalog/testutil/testdoubles"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wireEnvelope struct {
	Status string              `json:"status"`
	Body   jsoniter.RawMessage `json:"body"`
	Error  *string             `json:"error"`
}

func newServer(t *testing.T, executor catalog.StatementExecutor, options ...httpapi.Option) *httptest.Server {
	t.Helper()

	service, err := httpapi.NewBookService(executor, options...)
	require.NoError(t, err)

	server := httptest.NewServer(httpapi.NewRouter(service))
	t.Cleanup(server.Close)

	return server
}

func seededStore(t *testing.T) *memoryengine.Store {
	t.Helper()

	store := memoryengine.NewStore()
	seeder, err := initializer.New(store)
	require.NoError(t, err)
	require.False(t, seeder.Init(context.Background()).Failed())

	return store
}

func do(t *testing.T, server *httptest.Server, method, path string, body any) (*http.Response, wireEnvelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, server.URL+path, reader)
	require.NoError(t, err)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope wireEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	assertEnvelopeExclusive(t, raw, envelope)

	return resp, envelope
}

func assertEnvelopeExclusive(t *testing.T, raw []byte, envelope wireEnvelope) {
	t.Helper()

	var fields map[string]jsoniter.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))

	_, hasBody := fields["body"]
	_, hasError := fields["error"]

	switch envelope.Status {
	case "SUCCESS":
		assert.True(t, hasBody, "SUCCESS must carry a body: %s", raw)
		assert.False(t, hasError, "SUCCESS must not carry an error: %s", raw)
	case "FAIL":
		assert.True(t, hasError, "FAIL must carry an error: %s", raw)
		assert.False(t, hasBody, "FAIL must not carry a body: %s", raw)
	default:
		t.Fatalf("unknown envelope status in %s", raw)
	}
}

func decodeBody[T any](t *testing.T, envelope wireEnvelope) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(envelope.Body, &v))

	return v
}

func newBook(isbn string) catalog.Book {
	return catalog.Book{Name: "Tutunamayanlar", Author: "Oğuz Atay", ISBN: isbn, Language: "Türkçe"}
}

func Test_NewBookService_RejectsNilExecutor(t *testing.T) {
	// act
	service, err := httpapi.NewBookService(nil)

	// assert
	assert.ErrorIs(t, err, catalog.ErrNilDatabaseConnection)
	assert.Nil(t, service)
}

func Test_List_AfterSeeding_ReturnsTheSeedDataset(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))

	// act
	resp, envelope := do(t, server, http.MethodGet, "/books", nil)

	// assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "SUCCESS", envelope.Status)
	assert.Len(t, decodeBody[[]catalog.Book](t, envelope), 3)
}

func Test_List_OnEmptyTable_ReturnsEmptyArray(t *testing.T) {
	// arrange
	server := newServer(t, memoryengine.NewStore(memoryengine.WithExistingTable()))

	// act
	resp, envelope := do(t, server, http.MethodGet, "/books", nil)

	// assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(envelope.Body))
}

func Test_InsertThenGet_RoundTrips(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))
	book := newBook(uuid.NewString())

	// act
	insertResp, insertEnvelope := do(t, server, http.MethodPost, "/books", book)
	getResp, getEnvelope := do(t, server, http.MethodGet, "/books/"+book.ISBN, nil)

	// assert
	assert.Equal(t, http.StatusOK, insertResp.StatusCode)
	assert.Equal(t, "Inserted: 1 values", decodeBody[string](t, insertEnvelope))

	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, book, decodeBody[catalog.Book](t, getEnvelope))
}

func Test_Get_UnknownISBN_Answers404_NamingTheISBN(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))

	// act
	resp, envelope := do(t, server, http.MethodGet, "/books/0000000000", nil)

	// assert
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "FAIL", envelope.Status)
	require.NotNil(t, envelope.Error)
	assert.Contains(t, *envelope.Error, "0000000000")
}

func Test_Update_ChangingTheISBN_MovesTheBook(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))
	_, _ = do(t, server, http.MethodPost, "/books", newBook("111"))
	changed := catalog.Book{Name: "Aylak Adam", Author: "Yusuf Atılgan", ISBN: "222", Language: "Türkçe"}

	// act
	updateResp, updateEnvelope := do(t, server, http.MethodPut, "/books/111", changed)
	oldResp, _ := do(t, server, http.MethodGet, "/books/111", nil)
	newResp, newEnvelope := do(t, server, http.MethodGet, "/books/222", nil)

	// assert
	assert.Equal(t, http.StatusOK, updateResp.StatusCode)
	assert.Equal(t, "Updated: 1 values", decodeBody[string](t, updateEnvelope))
	assert.Equal(t, http.StatusNotFound, oldResp.StatusCode)
	assert.Equal(t, http.StatusOK, newResp.StatusCode)
	assert.Equal(t, changed, decodeBody[catalog.Book](t, newEnvelope))
}

func Test_Delete_DecreasesTheCount(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))
	_, before := do(t, server, http.MethodGet, "/books", nil)
	books := decodeBody[[]catalog.Book](t, before)
	require.NotEmpty(t, books)

	// act
	resp, envelope := do(t, server, http.MethodDelete, "/books/"+books[0].ISBN, nil)
	_, after := do(t, server, http.MethodGet, "/books", nil)

	// assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Deleted: 1 values", decodeBody[string](t, envelope))
	assert.Len(t, decodeBody[[]catalog.Book](t, after), len(books)-1)
}

func Test_UpdateAndDelete_ZeroRows_ReportSuccessByDefault(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))

	// act
	updateResp, updateEnvelope := do(t, server, http.MethodPut, "/books/missing", newBook("missing"))
	deleteResp, deleteEnvelope := do(t, server, http.MethodDelete, "/books/missing", nil)

	// assert
	assert.Equal(t, http.StatusOK, updateResp.StatusCode)
	assert.Equal(t, "Updated: 0 values", decodeBody[string](t, updateEnvelope))
	assert.Equal(t, http.StatusOK, deleteResp.StatusCode)
	assert.Equal(t, "Deleted: 0 values", decodeBody[string](t, deleteEnvelope))
}

func Test_UpdateAndDelete_ZeroRows_Answer404_WithStrictRowMatch(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t), httpapi.WithStrictRowMatch())

	// act
	updateResp, updateEnvelope := do(t, server, http.MethodPut, "/books/missing", newBook("missing"))
	deleteResp, deleteEnvelope := do(t, server, http.MethodDelete, "/books/missing", nil)

	// assert
	assert.Equal(t, http.StatusNotFound, updateResp.StatusCode)
	require.NotNil(t, updateEnvelope.Error)
	assert.Equal(t, "Book missing not found", *updateEnvelope.Error)
	assert.Equal(t, http.StatusNotFound, deleteResp.StatusCode)
	require.NotNil(t, deleteEnvelope.Error)
	assert.Equal(t, "Book missing not found", *deleteEnvelope.Error)
}

func Test_Insert_UndecodableBody_Answers400(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "{name:"},
		{name: "wrong type", body: `{"name": 42}`},
		{name: "null", body: "null"},
		{name: "empty object", body: "{}"},
		{name: "missing isbn", body: `{"name":"x","author":"y","language":"z"}`},
		{name: "empty isbn", body: `{"name":"x","author":"y","isbn":"","language":"z"}`},
		{name: "trailing data", body: `{"name":"x","author":"y","isbn":"1","language":"z"} trailing`},
		{name: "two values", body: `{"name":"x","author":"y","isbn":"1","language":"z"}{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := memoryengine.NewStore(memoryengine.WithExistingTable())
			server := newServer(t, store)

			resp, envelope := do(t, server, http.MethodPost, "/books", tc.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NotNil(t, envelope.Error)
			assert.True(t, strings.HasPrefix(*envelope.Error, "invalid book payload: "))
			assert.Empty(t, store.Books())
		})
	}
}

func Test_Update_IncompleteBody_Answers400_AndKeepsTheBook(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "null", body: "null"},
		{name: "empty object", body: "{}"},
		{name: "missing language", body: `{"name":"x","author":"y","isbn":"9759952378"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore(t)
			before := store.Books()
			server := newServer(t, store)

			resp, envelope := do(t, server, http.MethodPut, "/books/9759952378", tc.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NotNil(t, envelope.Error)
			assert.True(t, strings.HasPrefix(*envelope.Error, "invalid book payload: "))
			assert.Equal(t, before, store.Books())
		})
	}
}

func Test_Insert_DuplicateISBN_Answers500(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))

	// act
	resp, envelope := do(t, server, http.MethodPost, "/books", newBook("9759952378"))

	// assert
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Contains(t, *envelope.Error, "duplicate key")
}

func Test_StoreFailures_Answer500_OnEveryHandler(t *testing.T) {
	storeErr := errors.New("connection refused")

	testCases := []struct {
		name      string
		statement catalog.StatementName
		method    string
		path      string
		body      any
	}{
		{name: "list", statement: catalog.SelectAllBook, method: http.MethodGet, path: "/books"},
		{name: "get", statement: catalog.SelectBookByISBN, method: http.MethodGet, path: "/books/1"},
		{name: "insert", statement: catalog.InsertBook, method: http.MethodPost, path: "/books", body: newBook("1")},
		{name: "update", statement: catalog.UpdateBookByISBN, method: http.MethodPut, path: "/books/1", body: newBook("1")},
		{name: "delete", statement: catalog.DeleteBookByISBN, method: http.MethodDelete, path: "/books/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			failing := testdoubles.NewFailingExecutor(memoryengine.NewStore(memoryengine.WithExistingTable())).
				FailOn(tc.statement, 0, storeErr)
			logHandler := testdoubles.NewLogHandlerSpy(false)
			server := newServer(t, failing, httpapi.WithLogger(slog.New(logHandler)))

			resp, envelope := do(t, server, tc.method, tc.path, tc.body)

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "FAIL", envelope.Status)
			require.NotNil(t, envelope.Error)
			assert.Contains(t, *envelope.Error, "connection refused")
			assert.True(t, logHandler.HasLogWithAttr("book store operation failed", "operation", string(tc.statement)))
		})
	}
}

func Test_Get_UnmappableRow_Answers500(t *testing.T) {
	// arrange
	server := newServer(t, rowExecutor{row: catalog.Row{"name": "x", "author": "y", "isbn": "1"}})

	// act
	resp, envelope := do(t, server, http.MethodGet, "/books/1", nil)

	// assert
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Contains(t, *envelope.Error, "language")
}

func Test_Responses_CarryARequestID(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))
	sent := uuid.NewString()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+"/books", nil)
	require.NoError(t, err)
	req.Header.Set(httpapi.HeaderRequestID, sent)

	// act
	echoed, err := server.Client().Do(req)
	require.NoError(t, err)
	_ = echoed.Body.Close()
	generated, _ := do(t, server, http.MethodGet, "/books", nil)

	// assert
	assert.Equal(t, sent, echoed.Header.Get(httpapi.HeaderRequestID))
	_, parseErr := uuid.Parse(generated.Header.Get(httpapi.HeaderRequestID))
	assert.NoError(t, parseErr)
}

func Test_UnknownRouteAndMethod_AnswerWithFailEnvelope(t *testing.T) {
	// arrange
	server := newServer(t, seededStore(t))

	// act
	notFound, _ := do(t, server, http.MethodGet, "/authors", nil)
	notAllowed, _ := do(t, server, http.MethodPatch, "/books/1", nil)

	// assert
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, notAllowed.StatusCode)
}

// rowExecutor answers every Get with a fixed row.
type rowExecutor struct {
	row catalog.Row
}

func (e rowExecutor) Exec(context.Context, catalog.StatementName, catalog.Params) (int64, error) {
	return 0, nil
}

func (e rowExecutor) Query(context.Context, catalog.StatementName, catalog.Params) (catalog.RowStream, error) {
	return catalog.NewSliceRowStream([]catalog.Row{e.row}), nil
}

func (e rowExecutor) Get(context.Context, catalog.StatementName, catalog.Params) (catalog.Row, bool, error) {
	return e.row, true, nil
}
