package httpapi_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eroberer/bookcatalog/catalog"
	"github.com/eroberer/bookcatalog/catalog/memoryengine"
	"github.com/eroberer/bookcatalog/httpapi"
	"github.com/eroberer/bookcatalog/testutil/testdoubles"
)

func Test_Health_Up(t *testing.T) {
	// arrange
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	// act
	httpapi.HealthHandler(memoryengine.NewStore()).ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())
}

func Test_Health_Down_WhenPingFails(t *testing.T) {
	// arrange
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	// act
	httpapi.HealthHandler(unreachableStore{}).ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"DOWN","error":"dial tcp: connection refused"}`, rec.Body.String())
}

func Test_Health_UpForExecutorsWithoutPing(t *testing.T) {
	// arrange
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	// act
	httpapi.HealthHandler(rowExecutor{}).ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_NewRouter_ServesHealth(t *testing.T) {
	// arrange
	service, err := httpapi.NewBookService(memoryengine.NewStore())
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	// act
	httpapi.NewRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(httpapi.HeaderRequestID))
}

func Test_NewRouter_WritesAccessLog(t *testing.T) {
	// arrange
	service, err := httpapi.NewBookService(memoryengine.NewStore(memoryengine.WithExistingTable()))
	require.NoError(t, err)
	var accessLog strings.Builder
	rec := httptest.NewRecorder()

	// act
	httpapi.NewRouter(service, httpapi.WithAccessLog(&accessLog)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, accessLog.String(), `"GET /books HTTP/1.1" 200`)
}

func Test_RecoverWithEnvelope_TurnsPanicsInto500(t *testing.T) {
	// arrange
	logHandler := testdoubles.NewLogHandlerSpy(false)
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write")
	})
	handler := httpapi.RequestID(httpapi.RecoverWithEnvelope(slog.New(logHandler))(panicking))
	rec := httptest.NewRecorder()

	// act
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	})

	// assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"FAIL","error":"internal server error"}`, rec.Body.String())
	assert.True(t, logHandler.HasLogWithAttr("panic recovered while serving request", "panic", "nil map write"))
}

func Test_RequestID_IsAvailableToHandlers(t *testing.T) {
	// arrange
	var seen string
	handler := httpapi.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = httpapi.RequestIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set(httpapi.HeaderRequestID, "not-a-uuid")

	// act
	handler.ServeHTTP(rec, req)

	// assert
	assert.NotEqual(t, "not-a-uuid", seen)
	assert.Equal(t, seen, rec.Header().Get(httpapi.HeaderRequestID))
}

type unreachableStore struct {
	rowExecutor
}

func (unreachableStore) Ping(context.Context) error {
	return errors.New("dial tcp: connection refused")
}

var _ catalog.Pinger = unreachableStore{}
