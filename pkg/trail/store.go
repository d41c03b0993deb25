package trail

import (
	"context"
	"time"

	"github.com/chroniclehq/chronicle/pkg/filter"
)

// Page bounds a search result.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage is applied when a caller supplies no limit.
var DefaultPage = Page{Limit: 100}

// RetentionPolicy defines how long audit events are kept.
type RetentionPolicy struct {
	// RetentionDays is the number of days to keep events.
	RetentionDays int
}

// DefaultRetentionPolicy keeps events for 90 days.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{RetentionDays: 90}
}

// Cutoff returns the timestamp before which events are eligible for
// cleanup.
func (p RetentionPolicy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.RetentionDays)
}

// Store provides append and query access to the audit trail.
type Store interface {
	// Record appends an event. The store assigns EventID when empty.
	Record(ctx context.Context, event *AuditEvent) error

	// Get returns the event with the given id, or nil when unknown.
	Get(ctx context.Context, eventID string) (*AuditEvent, error)

	// Search executes a compiled filter query and returns the matching
	// page of events in query order.
	Search(ctx context.Context, query *filter.Query, page Page) ([]*AuditEvent, error)

	// Cleanup deletes events older than the retention period and reports
	// how many were removed.
	Cleanup(ctx context.Context, policy RetentionPolicy) (int64, error)
}
