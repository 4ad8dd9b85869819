package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID on requests and responses.
const HeaderRequestID = "X-Request-ID"

const (
	logMsgPanicRecovered = "panic recovered while serving request"
	logAttrPanic         = "panic"
	logAttrPath          = "path"
	msgInternalError     = "internal server error"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID assigns every request an ID and echoes it in the response header.
// A well-formed UUID sent by the client is kept, anything else is replaced by a fresh UUIDv7.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = newRequestID()
		}

		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

// RecoverWithEnvelope turns a panic in next into a 500 FAIL envelope.
func RecoverWithEnvelope(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				if recovered == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as the http package does
					panic(recovered)
				}

				if logger != nil {
					logger.ErrorContext(
						r.Context(),
						logMsgPanicRecovered,
						logAttrPanic, fmt.Sprint(recovered),
						logAttrPath, r.URL.Path,
						logAttrRequestID, RequestIDFromContext(r.Context()),
					)
				}

				_ = writeJSON(w, http.StatusInternalServerError, Fail[any](msgInternalError))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// slogRecoveryLogger adapts a slog.Logger to handlers.RecoveryHandlerLogger.
type slogRecoveryLogger struct {
	logger *slog.Logger
}

func (l slogRecoveryLogger) Println(v ...any) {
	l.logger.Error(logMsgPanicRecovered, logAttrPanic, fmt.Sprint(v...))
}
