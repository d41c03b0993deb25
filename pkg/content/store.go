package content

import (
	"context"
	"errors"
)

// ErrConcurrentRestore is returned when the compare-and-swap on the previous
// latest version matches no row: a concurrent operation already moved the
// latest pointer for that content id.
var ErrConcurrentRestore = errors.New("content: latest version changed concurrently")

// VersionStore persists content versions. Versions are independent records
// keyed by (contentID, versionID), related only by a contentID index lookup.
type VersionStore interface {
	// Latest returns the version currently flagged latest for contentID,
	// or nil when none exists.
	Latest(ctx context.Context, contentID string) (*Snapshot, error)

	// Get returns the version keyed by (contentID, versionID), or nil.
	Get(ctx context.Context, contentID, versionID string) (*Snapshot, error)

	// UnsetLatest clears the latest flag with a compare-and-swap: the
	// update only applies to the row still holding (contentID, versionID,
	// latest=true). It reports whether a row matched.
	UnsetLatest(ctx context.Context, contentID, versionID string) (bool, error)

	// CreateDraft persists the snapshot as a new version: a fresh version
	// id is assigned, latest is set and published stays false. Returns the
	// new version id.
	CreateDraft(ctx context.Context, snap *Snapshot) (string, error)

	// Save persists changes to an existing version row.
	Save(ctx context.Context, snap *Snapshot) error
}

// TxVersionStore is a VersionStore whose mutations can be grouped into one
// atomic unit of work.
type TxVersionStore interface {
	VersionStore

	// InTx runs fn against a store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back entirely on
	// error.
	InTx(ctx context.Context, fn func(VersionStore) error) error
}

// Loader enriches a detached snapshot the way the content pipeline would
// before editing (resolving defaults, wiring parts). External collaborator.
type Loader interface {
	LoadForEditing(ctx context.Context, snap *Snapshot) (*Snapshot, error)
}

// PassthroughLoader returns snapshots unchanged. Deployments with a content
// pipeline supply their own Loader.
type PassthroughLoader struct{}

func (PassthroughLoader) LoadForEditing(_ context.Context, snap *Snapshot) (*Snapshot, error) {
	return snap, nil
}

// Capability names an action an actor may be allowed to take on content.
type Capability string

const (
	CapabilityEdit    Capability = "edit"
	CapabilityPublish Capability = "publish"
)

// Authorizer answers whether an actor holds a capability on a snapshot.
// External collaborator; never consulted before the candidate is detached.
type Authorizer interface {
	Allowed(ctx context.Context, actor string, capability Capability, snap *Snapshot) (bool, error)
}

// AllowAll authorizes every request. Intended for development and tests;
// production deployments supply their own Authorizer.
type AllowAll struct{}

func (AllowAll) Allowed(context.Context, string, Capability, *Snapshot) (bool, error) {
	return true, nil
}

// ValidationResult carries the outcome of content-type validation.
type ValidationResult struct {
	Succeeded bool
	// Errors holds one message per failed field.
	Errors []string
}

// Validator checks a snapshot against its content-type schema. External
// collaborator.
type Validator interface {
	Validate(ctx context.Context, snap *Snapshot) (ValidationResult, error)
}

// AcceptAll passes every snapshot. Intended for development and tests.
type AcceptAll struct{}

func (AcceptAll) Validate(context.Context, *Snapshot) (ValidationResult, error) {
	return ValidationResult{Succeeded: true}, nil
}
