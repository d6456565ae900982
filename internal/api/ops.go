// internal/api/ops.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pe-insights/internal/common/database"
	"pe-insights/internal/store"
)

// NewOpsHandler serves /health, /ready and /metrics for the separate
// metrics listener. Ready requires a loaded snapshot and every backend to
// answer a ping.
func NewOpsHandler(state *store.State, timeout time.Duration, backends ...database.Pinger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		snap := state.Snapshot()
		failures := database.CheckAll(r.Context(), timeout, backends...)

		body := map[string]interface{}{
			"status":  "ready",
			"version": snap.Version,
			"time":    time.Now().Format(time.RFC3339),
		}
		status := http.StatusOK
		if snap.Version == 0 || len(failures) > 0 {
			body["status"] = "not_ready"
			status = http.StatusServiceUnavailable
		}
		if len(failures) > 0 {
			body["failures"] = failures
		}
		writeStatus(w, status, body)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
