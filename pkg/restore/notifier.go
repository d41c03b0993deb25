package restore

import (
	"context"

	"github.com/chroniclehq/chronicle/pkg/observability"
)

// Notifier receives the user-facing messages a restoration produces.
// External collaborator; a UI layer would surface these to the operator.
type Notifier interface {
	Success(ctx context.Context, message string)
	Warning(ctx context.Context, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Log *observability.Logger
}

func (n LogNotifier) Success(ctx context.Context, message string) {
	n.logger(ctx).Info(message)
}

func (n LogNotifier) Warning(ctx context.Context, message string) {
	n.logger(ctx).Warn(message)
}

func (n LogNotifier) logger(ctx context.Context) *observability.Logger {
	if n.Log != nil {
		return n.Log
	}
	return observability.FromContext(ctx)
}
