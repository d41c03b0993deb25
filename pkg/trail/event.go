package trail

import (
	"encoding/json"
	"time"

	"github.com/chroniclehq/chronicle/pkg/content"
)

// AuditEvent is one immutable audit log record. Events are created once at
// the time of the audited action, never mutated and never deleted outside
// retention cleanup.
type AuditEvent struct {
	// EventID uniquely identifies the record.
	EventID string `json:"eventId"`

	// CorrelationID groups events that stem from the same logical action.
	CorrelationID string `json:"correlationId,omitempty"`

	// Category is the coarse event classification (e.g. "Content").
	Category string `json:"category"`

	// Name is the event type within its category (e.g. "Published").
	Name string `json:"name"`

	// ActorName is the user the action is attributed to.
	ActorName string `json:"actorName,omitempty"`

	// CreatedUtc is when the audited action happened.
	CreatedUtc time.Time `json:"createdUtc"`

	// Payload is opaque structured data. Content events embed a
	// ContentEventPayload.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ContentEventPayload is the payload shape of content-related events: the
// snapshot captured when the action ran, plus its ordinal version number.
type ContentEventPayload struct {
	ContentItem   *content.Snapshot `json:"contentItem"`
	VersionNumber int               `json:"versionNumber,omitempty"`
}

// ContentPayload decodes the event payload as a content event. The second
// return is false when the payload is empty, malformed or carries no
// snapshot.
func (e *AuditEvent) ContentPayload() (*ContentEventPayload, bool) {
	if len(e.Payload) == 0 {
		return nil, false
	}

	var payload ContentEventPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return nil, false
	}
	if payload.ContentItem == nil {
		return nil, false
	}

	return &payload, true
}

// NewContentEvent builds an audit event embedding a content snapshot.
func NewContentEvent(category, name, actor, correlationID string, payload ContentEventPayload) (*AuditEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &AuditEvent{
		CorrelationID: correlationID,
		Category:      category,
		Name:          name,
		ActorName:     actor,
		CreatedUtc:    time.Now().UTC(),
		Payload:       raw,
	}, nil
}
