// Package content models content snapshots and their version history.
//
// A Snapshot is a point-in-time copy of a content item; audit events for
// content actions embed one in their payload. The VersionStore persists one
// independent record per (contentID, versionID), related only by a content
// id index lookup. Two flags are maintained per content id with an
// at-most-one invariant each: latest (the current working version) and
// published (the version visible to end consumers).
//
// UnsetLatest is a compare-and-swap keyed on the version id last observed,
// which is what closes the concurrent-restore race: a restore that lost the
// race matches zero rows and its whole unit of work rolls back.
//
// Authorization, validation and load-for-editing are external collaborators
// consumed through the narrow Authorizer, Validator and Loader interfaces.
package content
