package httpapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const (
	msgRouteNotFound    = "route %s not found"
	msgMethodNotAllowed = "method %s not allowed on %s"
)

type routerConfig struct {
	accessLog io.Writer
	logger    *slog.Logger
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

// WithAccessLog writes an Apache combined log line per request to w.
func WithAccessLog(w io.Writer) RouterOption {
	return func(c *routerConfig) {
		c.accessLog = w
	}
}

// WithRecoveryLogger logs recovered panics to logger.
func WithRecoveryLogger(logger *slog.Logger) RouterOption {
	return func(c *routerConfig) {
		c.logger = logger
	}
}

// NewRouter builds the HTTP handler of the service: the book routes, /health, envelope answers for
// unknown routes and methods, request IDs, panic recovery and optional access logging.
func NewRouter(service *BookService, options ...RouterOption) http.Handler {
	var cfg routerConfig
	for _, option := range options {
		option(&cfg)
	}

	r := mux.NewRouter()
	service.Register(r)
	r.Methods(http.MethodGet).Path("/health").Handler(HealthHandler(service.executor))

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_ = writeJSON(w, http.StatusNotFound, Fail[any](fmt.Sprintf(msgRouteNotFound, req.URL.Path)))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_ = writeJSON(w, http.StatusMethodNotAllowed, Fail[any](fmt.Sprintf(msgMethodNotAllowed, req.Method, req.URL.Path)))
	})

	var handler http.Handler = RecoverWithEnvelope(cfg.logger)(r)
	handler = RequestID(handler)

	if cfg.accessLog != nil {
		handler = handlers.CombinedLoggingHandler(cfg.accessLog, handler)
	}

	recoveryOptions := []handlers.RecoveryOption{handlers.PrintRecoveryStack(false)}
	if cfg.logger != nil {
		recoveryOptions = append(recoveryOptions, handlers.RecoveryLogger(slogRecoveryLogger{logger: cfg.logger}))
	}

	return handlers.RecoveryHandler(recoveryOptions...)(handler)
}
