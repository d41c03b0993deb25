package restore

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chroniclehq/chronicle/pkg/observability"
)

// Handlers provides the HTTP surface of the restoration engine.
type Handlers struct {
	engine  *Engine
	metrics *observability.Metrics
}

// NewHandlers creates restore HTTP handlers. metrics may be nil.
func NewHandlers(engine *Engine, metrics *observability.Metrics) *Handlers {
	return &Handlers{engine: engine, metrics: metrics}
}

// RegisterRoutes registers the restore routes.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/trail/events/{id}/restore", h.restoreEvent).Methods("POST")
}

// restoreEvent handles POST /trail/events/{id}/restore
func (h *Handlers) restoreEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	actor := observability.GetActor(r.Context())
	if actor == "" {
		actor = r.Header.Get("X-Actor")
	}

	start := time.Now()
	outcome, err := h.engine.Restore(r.Context(), eventID, actor)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("restore failed")
		if h.metrics != nil {
			h.metrics.ObserveRestore("error", time.Since(start))
		}
		http.Error(w, "restore failed", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveRestore(string(outcome.Kind), time.Since(start))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(outcome.Kind))
	json.NewEncoder(w).Encode(outcome)
}

// statusFor maps an outcome to its HTTP status.
func statusFor(kind OutcomeKind) int {
	switch kind {
	case KindRestored:
		return http.StatusOK
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindAlreadyActive:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
