package trail

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/chroniclehq/chronicle/pkg/filter"
)

const eventCacheSize = 1024
const eventCacheTTL = 5 * time.Minute

// DBStore implements Store on PostgreSQL. Events are immutable, so reads by
// id go through a small expirable LRU.
type DBStore struct {
	db    *sql.DB
	cache *lru.LRU[string, *AuditEvent]
}

// NewDBStore creates a PostgreSQL-backed audit trail store and ensures its
// table exists.
func NewDBStore(db *sql.DB) (*DBStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	store := &DBStore{
		db:    db,
		cache: lru.NewLRU[string, *AuditEvent](eventCacheSize, nil, eventCacheTTL),
	}

	if err := store.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure audit_events table: %w", err)
	}

	return store, nil
}

// ensureTable creates the audit_events table if it doesn't exist.
func (s *DBStore) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_events (
		event_id VARCHAR(100) PRIMARY KEY,
		correlation_id VARCHAR(100),
		category VARCHAR(100) NOT NULL,
		name VARCHAR(100) NOT NULL,
		actor_name VARCHAR(255),
		created_utc TIMESTAMP WITH TIME ZONE NOT NULL,
		payload JSONB
	);

	CREATE INDEX IF NOT EXISTS idx_audit_events_created_utc ON audit_events(created_utc DESC);
	CREATE INDEX IF NOT EXISTS idx_audit_events_correlation_id ON audit_events(correlation_id);
	CREATE INDEX IF NOT EXISTS idx_audit_events_category ON audit_events(category);
	CREATE INDEX IF NOT EXISTS idx_audit_events_actor_name ON audit_events(actor_name);
	`

	_, err := s.db.Exec(query)
	return err
}

// Record appends an event, assigning an id and timestamp when missing.
func (s *DBStore) Record(ctx context.Context, event *AuditEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedUtc.IsZero() {
		event.CreatedUtc = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (event_id, correlation_id, category, name, actor_name, created_utc, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.EventID, event.CorrelationID, event.Category, event.Name, event.ActorName, event.CreatedUtc, []byte(event.Payload))
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}

// Get returns the event with the given id, or nil when unknown.
func (s *DBStore) Get(ctx context.Context, eventID string) (*AuditEvent, error) {
	if event, ok := s.cache.Get(eventID); ok {
		return event, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT event_id, correlation_id, category, name, actor_name, created_utc, payload
		FROM audit_events
		WHERE event_id = $1
	`, eventID)

	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load audit event: %w", err)
	}

	s.cache.Add(eventID, event)
	return event, nil
}

// Search compiles the filter query to SQL and returns the matching page.
func (s *DBStore) Search(ctx context.Context, query *filter.Query, page Page) ([]*AuditEvent, error) {
	sqlQuery, args := compileQuery(query, page)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search audit events: %w", err)
	}
	defer rows.Close()

	events := make([]*AuditEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}

	return events, nil
}

// Cleanup deletes events older than the retention period.
func (s *DBStore) Cleanup(ctx context.Context, policy RetentionPolicy) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_events WHERE created_utc < $1",
		policy.Cutoff(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up audit events: %w", err)
	}

	return result.RowsAffected()
}

// compileQuery renders a filter query as SQL over the audit_events table.
func compileQuery(query *filter.Query, page Page) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT event_id, correlation_id, category, name, actor_name, created_utc, payload FROM audit_events WHERE 1=1`)

	args := []interface{}{}
	argCount := 1

	for _, pred := range query.Predicates() {
		column := pred.Field.String()
		switch pred.Op {
		case filter.OpEquals:
			sb.WriteString(fmt.Sprintf(" AND %s = $%d", column, argCount))
			args = append(args, pred.Value)
		case filter.OpContains:
			sb.WriteString(fmt.Sprintf(" AND %s LIKE $%d", column, argCount))
			args = append(args, "%"+pred.Value+"%")
		case filter.OpNotContains:
			sb.WriteString(fmt.Sprintf(" AND (%s IS NULL OR %s NOT LIKE $%d)", column, column, argCount))
			args = append(args, "%"+pred.Value+"%")
		default:
			continue
		}
		argCount++
	}

	orderings := query.Orderings()
	if len(orderings) == 0 {
		sb.WriteString(" ORDER BY created_utc DESC")
	} else {
		sb.WriteString(" ORDER BY ")
		for i, ord := range orderings {
			if i > 0 {
				sb.WriteString(", ")
			}
			direction := "ASC"
			if ord.Direction == filter.Descending {
				direction = "DESC"
			}
			sb.WriteString(ord.Field.String() + " " + direction)
		}
	}

	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPage.Limit
	}
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
	args = append(args, limit)
	argCount++

	if page.Offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
		args = append(args, page.Offset)
	}

	return sb.String(), args
}

// scanEvent scans one event row using the given scan function.
func scanEvent(scan func(dest ...interface{}) error) (*AuditEvent, error) {
	var (
		event         AuditEvent
		correlationID sql.NullString
		actorName     sql.NullString
		payload       []byte
	)

	err := scan(&event.EventID, &correlationID, &event.Category, &event.Name, &actorName, &event.CreatedUtc, &payload)
	if err != nil {
		return nil, err
	}

	event.CorrelationID = correlationID.String
	event.ActorName = actorName.String
	event.Payload = payload

	return &event, nil
}
