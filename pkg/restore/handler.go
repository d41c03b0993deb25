package restore

import (
	"context"

	"github.com/chroniclehq/chronicle/pkg/content"
	"github.com/chroniclehq/chronicle/pkg/observability"
	"github.com/chroniclehq/chronicle/pkg/trail"
)

// Context is the mutable state handlers observe around a restoration
// commit.
type Context struct {
	// Event is the audit event the restoration was started from.
	Event *trail.AuditEvent

	// Snapshot is the detached, loaded candidate about to become (or just
	// become) the new draft version.
	Snapshot *content.Snapshot

	// NewVersionID is populated before AfterRestore runs.
	NewVersionID string
}

// Handler observes a restoration immediately before and after its commit.
// Handlers are registered as an explicit ordered list at engine
// construction; invocation order is registration order and is stable
// across runs.
type Handler interface {
	// BeforeRestore runs before any persistent mutation. An error aborts
	// the restoration.
	BeforeRestore(ctx context.Context, rc *Context) error

	// AfterRestore runs after the new draft is committed. Errors are
	// logged and do not roll back the restoration.
	AfterRestore(ctx context.Context, rc *Context) error
}

// runBefore invokes every handler in order, stopping at the first error.
func runBefore(ctx context.Context, handlers []Handler, rc *Context) error {
	for _, h := range handlers {
		if err := h.BeforeRestore(ctx, rc); err != nil {
			return err
		}
	}
	return nil
}

// runAfter invokes every handler in order, continuing past individual
// failures: the restoration is already committed.
func runAfter(ctx context.Context, handlers []Handler, rc *Context, log *observability.Logger) {
	for _, h := range handlers {
		if err := h.AfterRestore(ctx, rc); err != nil {
			log.WithError(err).Warn("restore handler failed after commit")
		}
	}
}
