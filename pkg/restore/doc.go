// Package restore reconstructs content to a historical version captured in
// the audit trail.
//
// # State machine
//
// Restore(eventID) walks a fixed sequence, each step gating the next:
//
//	Fetch(eventID)            unknown id or no snapshot -> NotFound
//	DetachSnapshot            clears versionId/latest/published
//	LoadForEditing            content pipeline enrichment
//	Authorize(publish)        denied -> Forbidden (nothing mutated)
//	Validate                  failed -> ValidationFailed(messages)
//	CompareAgainstLatest      logged version == current latest -> AlreadyActive
//	BeforeRestore handlers    error aborts before any mutation
//	UnsetLatest + CreateDraft one atomic transaction (CAS on the unset)
//	AfterRestore handlers     failures logged, never rolled back
//	-> Restored(newVersionID)
//
// The new version is always a draft: restoring a published snapshot never
// republishes it. Publishing is a separate, external action.
//
// Business-rule failures are Outcome values; only infrastructure faults
// surface as errors, and those roll back the whole unit of work.
package restore
