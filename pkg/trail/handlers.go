package trail

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/chroniclehq/chronicle/pkg/filter"
	"github.com/chroniclehq/chronicle/pkg/observability"
)

// Handlers provides the HTTP surface of the audit trail.
type Handlers struct {
	store      Store
	registry   *filter.Registry
	evaluator  *filter.Evaluator
	categories *CategoryRegistry
	metrics    *observability.Metrics
}

// NewHandlers creates trail HTTP handlers. metrics may be nil.
func NewHandlers(store Store, registry *filter.Registry, evaluator *filter.Evaluator, categories *CategoryRegistry, metrics *observability.Metrics) *Handlers {
	return &Handlers{
		store:      store,
		registry:   registry,
		evaluator:  evaluator,
		categories: categories,
		metrics:    metrics,
	}
}

// RegisterRoutes registers the audit trail routes.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/trail/events", h.listEvents).Methods("GET")
	router.HandleFunc("/trail/events", h.recordEvent).Methods("POST")
	router.HandleFunc("/trail/events/{id}", h.getEvent).Methods("GET")
	router.HandleFunc("/trail/export", h.exportEvents).Methods("GET")
	router.HandleFunc("/trail/categories", h.listCategories).Methods("GET")
}

// listEvents handles GET /trail/events?q=<filter>&limit=&offset=
func (h *Handlers) listEvents(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	page := parsePage(r)

	events, opts, err := h.search(r, raw, page)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("trail search failed")
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"events": events,
		"count":  len(events),
		"limit":  page.Limit,
		"offset": page.Offset,
		// The normalized form of the applied filter; stable and
		// comparable across calls.
		"query": h.registry.Render(opts),
	})
}

// recordEvent handles POST /trail/events
func (h *Handlers) recordEvent(w http.ResponseWriter, r *http.Request) {
	var event AuditEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid event body", http.StatusBadRequest)
		return
	}
	if event.Category == "" || event.Name == "" {
		http.Error(w, "category and name are required", http.StatusBadRequest)
		return
	}
	if event.ActorName == "" {
		event.ActorName = observability.GetActor(r.Context())
	}

	if err := h.store.Record(r.Context(), &event); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to record event")
		http.Error(w, "failed to record event", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.EventsRecordedTotal.WithLabelValues(event.Category).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"eventId": event.EventID})
}

// getEvent handles GET /trail/events/{id}
func (h *Handlers) getEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	event, err := h.store.Get(r.Context(), eventID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if event == nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{"event": event}
	if payload, ok := event.ContentPayload(); ok {
		response["contentItem"] = payload.ContentItem
		response["versionNumber"] = payload.VersionNumber
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// exportEvents handles GET /trail/export?q=&format=
func (h *Handlers) exportEvents(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	format := ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = ExportFormatJSON
	}

	events, _, err := h.search(r, raw, parsePage(r))
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	data, err := Export(events, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	}

	switch format {
	case ExportFormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=audit-trail.csv")
	case ExportFormatNDJSON:
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Content-Disposition", "attachment; filename=audit-trail.ndjson")
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=audit-trail.json")
	}

	w.Write(data)
}

// listCategories handles GET /trail/categories
func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	var categories []CategoryDescriptor
	if h.categories != nil {
		categories = h.categories.Describe()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"categories": categories})
}

// search evaluates a raw filter string and runs it against the store.
func (h *Handlers) search(r *http.Request, raw string, page Page) ([]*AuditEvent, filter.Options, error) {
	opts := h.registry.Parse(raw)

	query, err := h.evaluator.Evaluate(r.Context(), raw)
	if err != nil {
		return nil, opts, err
	}

	start := time.Now()
	events, err := h.store.Search(r.Context(), query, page)
	if err != nil {
		return nil, opts, err
	}

	if h.metrics != nil {
		h.metrics.ObserveSearch(time.Since(start))
	}

	return events, opts, nil
}

// parsePage parses limit/offset query parameters.
func parsePage(r *http.Request) Page {
	page := DefaultPage

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			page.Offset = offset
		}
	}

	return page
}
