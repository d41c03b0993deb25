package restore

// OutcomeKind classifies the result of a restoration attempt. Business-rule
// failures are reported through outcomes, never through errors.
type OutcomeKind string

const (
	// KindRestored means a new draft version was created.
	KindRestored OutcomeKind = "restored"
	// KindNotFound means the event id is unknown or carries no snapshot.
	KindNotFound OutcomeKind = "not_found"
	// KindForbidden means the actor may not publish the content. Nothing
	// was mutated.
	KindForbidden OutcomeKind = "forbidden"
	// KindValidationFailed means the snapshot failed content-type
	// validation. Nothing was mutated.
	KindValidationFailed OutcomeKind = "validation_failed"
	// KindAlreadyActive means the candidate version is already the
	// current latest. Nothing was mutated.
	KindAlreadyActive OutcomeKind = "already_active"
)

// Outcome is the structured result of a restoration attempt.
type Outcome struct {
	Kind OutcomeKind `json:"outcome"`

	// NewVersionID is set when Kind is KindRestored.
	NewVersionID string `json:"newVersionId,omitempty"`

	// Messages carries per-field errors when Kind is KindValidationFailed.
	Messages []string `json:"messages,omitempty"`
}

// Restored builds a success outcome.
func Restored(newVersionID string) Outcome {
	return Outcome{Kind: KindRestored, NewVersionID: newVersionID}
}

// NotFound builds a not-found outcome.
func NotFound() Outcome {
	return Outcome{Kind: KindNotFound}
}

// Forbidden builds a forbidden outcome.
func Forbidden() Outcome {
	return Outcome{Kind: KindForbidden}
}

// ValidationFailed builds a validation-failure outcome carrying the
// per-field messages.
func ValidationFailed(messages []string) Outcome {
	return Outcome{Kind: KindValidationFailed, Messages: messages}
}

// AlreadyActive builds an already-active outcome.
func AlreadyActive() Outcome {
	return Outcome{Kind: KindAlreadyActive}
}
