package trail

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chroniclehq/chronicle/pkg/filter"
)

func newMockStore(t *testing.T) (*DBStore, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_events").WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewDBStore(db)
	require.NoError(t, err)

	return store, mock, func() { db.Close() }
}

func TestNewDBStore_RequiresConnection(t *testing.T) {
	_, err := NewDBStore(nil)
	assert.Error(t, err)
}

func TestDBStore_Record(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO audit_events").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &AuditEvent{Category: "Content", Name: "Created", ActorName: "alice"}
	require.NoError(t, store.Record(context.Background(), event))

	// Record assigns missing identity fields.
	assert.NotEmpty(t, event.EventID)
	assert.False(t, event.CreatedUtc.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStore_GetCachesImmutableEvents(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	payload, _ := json.Marshal(ContentEventPayload{VersionNumber: 3})
	rows := sqlmock.NewRows([]string{"event_id", "correlation_id", "category", "name", "actor_name", "created_utc", "payload"}).
		AddRow("e1", "c1", "Content", "Published", "alice", time.Now().UTC(), payload)

	// A single query serves both calls; the second hits the cache.
	mock.ExpectQuery("SELECT (.+) FROM audit_events").WillReturnRows(rows)

	first, err := store.Get(context.Background(), "e1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Published", first.Name)

	second, err := store.Get(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStore_GetUnknownEvent(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM audit_events").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "correlation_id", "category", "name", "actor_name", "created_utc", "payload"}))

	event, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestDBStore_Search(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	rows := sqlmock.NewRows([]string{"event_id", "correlation_id", "category", "name", "actor_name", "created_utc", "payload"}).
		AddRow("e1", "c1", "Content", "Created", "alice", time.Now().UTC(), nil)

	mock.ExpectQuery("SELECT (.+) FROM audit_events WHERE 1=1 AND correlation_id = \\$1 ORDER BY created_utc DESC LIMIT \\$2").
		WithArgs("c1", 100).
		WillReturnRows(rows)

	query := filter.NewQuery().Where(filter.FieldCorrelationID, filter.OpEquals, "c1")
	events, err := store.Search(context.Background(), query, DefaultPage)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].EventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStore_SearchError(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM audit_events").WillReturnError(errors.New("connection lost"))

	_, err := store.Search(context.Background(), filter.NewQuery(), DefaultPage)
	assert.Error(t, err)
}

func TestDBStore_Cleanup(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectExec("DELETE FROM audit_events WHERE created_utc").
		WillReturnResult(sqlmock.NewResult(0, 42))

	removed, err := store.Cleanup(context.Background(), RetentionPolicy{RetentionDays: 90})
	require.NoError(t, err)
	assert.Equal(t, int64(42), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    *filter.Query
		page     Page
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "empty query gets default order and limit",
			query:    filter.NewQuery(),
			page:     DefaultPage,
			wantSQL:  "SELECT event_id, correlation_id, category, name, actor_name, created_utc, payload FROM audit_events WHERE 1=1 ORDER BY created_utc DESC LIMIT $1",
			wantArgs: []interface{}{100},
		},
		{
			name: "contains compiles to LIKE",
			query: filter.NewQuery().
				Where(filter.FieldActorName, filter.OpContains, "ali"),
			page:     Page{Limit: 10},
			wantSQL:  "SELECT event_id, correlation_id, category, name, actor_name, created_utc, payload FROM audit_events WHERE 1=1 AND actor_name LIKE $1 ORDER BY created_utc DESC LIMIT $2",
			wantArgs: []interface{}{"%ali%", 10},
		},
		{
			name: "not-contains keeps null actors",
			query: filter.NewQuery().
				Where(filter.FieldActorName, filter.OpNotContains, "ali"),
			page:     Page{Limit: 10},
			wantSQL:  "SELECT event_id, correlation_id, category, name, actor_name, created_utc, payload FROM audit_events WHERE 1=1 AND (actor_name IS NULL OR actor_name NOT LIKE $1) ORDER BY created_utc DESC LIMIT $2",
			wantArgs: []interface{}{"%ali%", 10},
		},
		{
			name: "orderings and offset",
			query: filter.NewQuery().
				Where(filter.FieldCategory, filter.OpEquals, "Content").
				OrderBy(
					filter.Ordering{Field: filter.FieldCategory, Direction: filter.Ascending},
					filter.Ordering{Field: filter.FieldCreatedUtc, Direction: filter.Descending},
				),
			page:     Page{Limit: 25, Offset: 50},
			wantSQL:  "SELECT event_id, correlation_id, category, name, actor_name, created_utc, payload FROM audit_events WHERE 1=1 AND category = $1 ORDER BY category ASC, created_utc DESC LIMIT $2 OFFSET $3",
			wantArgs: []interface{}{"Content", 25, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs := compileQuery(tt.query, tt.page)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}
