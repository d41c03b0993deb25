package restore

import (
	"context"
	"fmt"

	"github.com/chroniclehq/chronicle/pkg/content"
	"github.com/chroniclehq/chronicle/pkg/observability"
	"github.com/chroniclehq/chronicle/pkg/trail"
)

// Deps are the collaborators a restoration engine needs. Events, Versions,
// Authorizer and Validator are required; the rest default to no-op
// implementations.
type Deps struct {
	Events     trail.Store
	Versions   content.TxVersionStore
	Loader     content.Loader
	Authorizer content.Authorizer
	Validator  content.Validator
	Handlers   []Handler
	Notifier   Notifier
	Logger     *observability.Logger
}

// Engine restores content to a historical version captured in an audit
// event. A restoration is a request-scoped unit of work: the two mutating
// steps run inside one transaction that commits at the end and rolls back
// entirely on any fault.
type Engine struct {
	events     trail.Store
	versions   content.TxVersionStore
	loader     content.Loader
	authorizer content.Authorizer
	validator  content.Validator
	handlers   []Handler
	notifier   Notifier
	log        *observability.Logger
}

// NewEngine creates a restoration engine.
func NewEngine(deps Deps) (*Engine, error) {
	if deps.Events == nil {
		return nil, fmt.Errorf("event store is required")
	}
	if deps.Versions == nil {
		return nil, fmt.Errorf("version store is required")
	}
	if deps.Authorizer == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if deps.Validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if deps.Loader == nil {
		deps.Loader = content.PassthroughLoader{}
	}
	if deps.Logger == nil {
		deps.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	if deps.Notifier == nil {
		deps.Notifier = LogNotifier{Log: deps.Logger}
	}

	return &Engine{
		events:     deps.Events,
		versions:   deps.Versions,
		loader:     deps.Loader,
		authorizer: deps.Authorizer,
		validator:  deps.Validator,
		handlers:   deps.Handlers,
		notifier:   deps.Notifier,
		log:        deps.Logger,
	}, nil
}

// Restore reconstructs the content snapshot embedded in the given audit
// event and commits it as a new draft version.
//
// Business-rule failures (unknown event, denied actor, invalid snapshot,
// already-active version) come back as outcomes with a nil error; only
// infrastructure faults return an error, and those leave no partial state
// behind.
func (e *Engine) Restore(ctx context.Context, eventID, actor string) (Outcome, error) {
	event, err := e.events.Get(ctx, eventID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	if event == nil {
		return NotFound(), nil
	}

	payload, ok := event.ContentPayload()
	if !ok {
		return NotFound(), nil
	}

	snap := payload.ContentItem.Clone()

	// Remember the logged version before detaching: the already-active
	// check compares it against the current latest.
	originalVersionID := snap.VersionID
	snap.Detach()

	snap, err = e.loader.LoadForEditing(ctx, snap)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load snapshot for editing: %w", err)
	}

	allowed, err := e.authorizer.Allowed(ctx, actor, content.CapabilityPublish, snap)
	if err != nil {
		return Outcome{}, fmt.Errorf("authorization check failed: %w", err)
	}
	if !allowed {
		return Forbidden(), nil
	}

	result, err := e.validator.Validate(ctx, snap)
	if err != nil {
		return Outcome{}, fmt.Errorf("validation failed to run: %w", err)
	}
	if !result.Succeeded {
		e.notifier.Warning(ctx, fmt.Sprintf("'%s' was not restored, the version is not valid.", snap.DisplayText))
		for _, message := range result.Errors {
			e.notifier.Warning(ctx, message)
		}
		return ValidationFailed(result.Errors), nil
	}

	previous, err := e.versions.Latest(ctx, snap.ContentID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load latest version: %w", err)
	}
	if previous != nil && previous.VersionID == originalVersionID {
		e.notifier.Warning(ctx, fmt.Sprintf("'%s' was not restored, the version is already active.", snap.DisplayText))
		return AlreadyActive(), nil
	}

	rc := &Context{Event: event, Snapshot: snap}
	if err := runBefore(ctx, e.handlers, rc); err != nil {
		return Outcome{}, fmt.Errorf("restore handler rejected the operation: %w", err)
	}

	// Unsetting the previous latest and creating the draft are one atomic
	// unit: either both happen or neither does. The unset is a CAS keyed
	// on the version id read above, so a concurrent restore of the same
	// content id fails here and rolls back.
	var newVersionID string
	err = e.versions.InTx(ctx, func(vs content.VersionStore) error {
		if previous != nil {
			swapped, err := vs.UnsetLatest(ctx, previous.ContentID, previous.VersionID)
			if err != nil {
				return err
			}
			if !swapped {
				return content.ErrConcurrentRestore
			}
		}

		newVersionID, err = vs.CreateDraft(ctx, snap)
		return err
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to commit restored version: %w", err)
	}

	rc.NewVersionID = newVersionID
	runAfter(ctx, e.handlers, rc, e.log)

	e.notifier.Success(ctx, fmt.Sprintf("'%s' has been restored.", snap.DisplayText))
	e.log.WithFields(map[string]interface{}{
		"event_id":       eventID,
		"content_id":     snap.ContentID,
		"new_version_id": newVersionID,
	}).Info("content restored from audit trail")

	return Restored(newVersionID), nil
}
