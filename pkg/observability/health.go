package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthChecker provides liveness and readiness probes.
type HealthChecker struct {
	db *sql.DB
}

// NewHealthChecker creates a health checker. db may be nil when the process
// runs without a database (in-memory mode).
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Liveness always reports healthy while the process serves requests.
func (h *HealthChecker) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, StatusHealthy)
}

// Readiness pings the database when one is configured.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, StatusUnhealthy)
			return
		}
	}
	writeStatus(w, http.StatusOK, StatusHealthy)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}
