package restore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, f *fixture, mutate func(*Deps)) *mux.Router {
	t.Helper()

	engine := f.engine(t, mutate)
	router := mux.NewRouter()
	NewHandlers(engine, nil).RegisterRoutes(router)
	return router
}

func TestRestoreEvent_Success(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(t, f, nil)

	req := httptest.NewRequest(http.MethodPost, "/trail/events/"+f.eventID+"/restore", nil)
	req.Header.Set("X-Actor", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var outcome Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, KindRestored, outcome.Kind)
	assert.NotEmpty(t, outcome.NewVersionID)
}

func TestRestoreEvent_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		mutate  func(*Deps)
		status  int
		kind    OutcomeKind
	}{
		{
			name:    "unknown event",
			eventID: "missing",
			status:  http.StatusNotFound,
			kind:    KindNotFound,
		},
		{
			name:   "forbidden",
			mutate: func(d *Deps) { d.Authorizer = denyAll{} },
			status: http.StatusForbidden,
			kind:   KindForbidden,
		},
		{
			name:   "validation failed",
			mutate: func(d *Deps) { d.Validator = rejectValidator{messages: []string{"bad"}} },
			status: http.StatusUnprocessableEntity,
			kind:   KindValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			router := newTestRouter(t, f, tt.mutate)

			eventID := tt.eventID
			if eventID == "" {
				eventID = f.eventID
			}

			req := httptest.NewRequest(http.MethodPost, "/trail/events/"+eventID+"/restore", nil)
			req.Header.Set("X-Actor", "alice")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)

			var outcome Outcome
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
			assert.Equal(t, tt.kind, outcome.Kind)
		})
	}
}

func TestRestoreEvent_EngineFault(t *testing.T) {
	f := newFixture(t)
	racing := &racingVersionStore{MemVersionStore: f.versions}
	router := newTestRouter(t, f, func(d *Deps) { d.Versions = racing })

	req := httptest.NewRequest(http.MethodPost, "/trail/events/"+f.eventID+"/restore", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(KindRestored))
	assert.Equal(t, http.StatusNotFound, statusFor(KindNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(KindForbidden))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(KindValidationFailed))
	assert.Equal(t, http.StatusConflict, statusFor(KindAlreadyActive))
	assert.Equal(t, http.StatusInternalServerError, statusFor(OutcomeKind("unknown")))
}
