package httpapi

import (
	"net/http"

	"github.com/eroberer/bookcatalog/catalog"
)

const (
	healthUp   = "UP"
	healthDown = "DOWN"
)

type healthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler answers 200 {"status":"UP"} when the store can be reached and 503 {"status":"DOWN"} otherwise.
// Executors that cannot be pinged are reported as up.
func HealthHandler(executor catalog.StatementExecutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pinger, ok := executor.(catalog.Pinger)
		if !ok {
			_ = writeJSON(w, http.StatusOK, healthStatus{Status: healthUp})
			return
		}

		if err := pinger.Ping(r.Context()); err != nil {
			_ = writeJSON(w, http.StatusServiceUnavailable, healthStatus{Status: healthDown, Error: err.Error()})
			return
		}

		_ = writeJSON(w, http.StatusOK, healthStatus{Status: healthUp})
	}
}
