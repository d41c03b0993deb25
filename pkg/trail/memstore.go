package trail

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chroniclehq/chronicle/pkg/filter"
)

// MemStore is an in-memory Store for tests and dev mode. It evaluates
// filter queries directly against the event slice, with the same predicate
// and ordering semantics the SQL backend compiles to.
type MemStore struct {
	mu     sync.RWMutex
	events []*AuditEvent
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Record appends an event, assigning an id and timestamp when missing.
func (s *MemStore) Record(_ context.Context, event *AuditEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedUtc.IsZero() {
		event.CreatedUtc = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Get returns the event with the given id, or nil when unknown.
func (s *MemStore) Get(_ context.Context, eventID string) (*AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, event := range s.events {
		if event.EventID == eventID {
			return event, nil
		}
	}
	return nil, nil
}

// Search evaluates the filter query in memory.
func (s *MemStore) Search(_ context.Context, query *filter.Query, page Page) ([]*AuditEvent, error) {
	s.mu.RLock()
	matched := make([]*AuditEvent, 0, len(s.events))
	for _, event := range s.events {
		if matches(event, query.Predicates()) {
			matched = append(matched, event)
		}
	}
	s.mu.RUnlock()

	sortEvents(matched, query.Orderings())

	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPage.Limit
	}
	if page.Offset >= len(matched) {
		return []*AuditEvent{}, nil
	}
	matched = matched[page.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Cleanup deletes events older than the retention period.
func (s *MemStore) Cleanup(_ context.Context, policy RetentionPolicy) (int64, error) {
	cutoff := policy.Cutoff(time.Now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var removed int64
	for _, event := range s.events {
		if event.CreatedUtc.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, event)
	}
	s.events = kept
	return removed, nil
}

// matches reports whether an event satisfies every predicate.
func matches(event *AuditEvent, predicates []filter.Predicate) bool {
	for _, pred := range predicates {
		value := fieldValue(event, pred.Field)
		switch pred.Op {
		case filter.OpEquals:
			if value != pred.Value {
				return false
			}
		case filter.OpContains:
			if !strings.Contains(value, pred.Value) {
				return false
			}
		case filter.OpNotContains:
			if strings.Contains(value, pred.Value) {
				return false
			}
		}
	}
	return true
}

// fieldValue extracts the string value of an index field.
func fieldValue(event *AuditEvent, field filter.Field) string {
	switch field {
	case filter.FieldCorrelationID:
		return event.CorrelationID
	case filter.FieldCategory:
		return event.Category
	case filter.FieldName:
		return event.Name
	case filter.FieldActorName:
		return event.ActorName
	case filter.FieldCreatedUtc:
		return event.CreatedUtc.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// sortEvents applies the orderings with a stable sort so repeated
// evaluation yields the same order.
func sortEvents(events []*AuditEvent, orderings []filter.Ordering) {
	if len(orderings) == 0 {
		orderings = []filter.Ordering{{Field: filter.FieldCreatedUtc, Direction: filter.Descending}}
	}

	sort.SliceStable(events, func(i, j int) bool {
		for _, ord := range orderings {
			cmp := compareField(events[i], events[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Direction == filter.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareField compares two events on one field: -1, 0 or 1.
func compareField(a, b *AuditEvent, field filter.Field) int {
	if field == filter.FieldCreatedUtc {
		switch {
		case a.CreatedUtc.Before(b.CreatedUtc):
			return -1
		case a.CreatedUtc.After(b.CreatedUtc):
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fieldValue(a, field), fieldValue(b, field))
}
