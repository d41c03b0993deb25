package content

// Snapshot is a point-in-time copy of a content item. Audit events for
// content actions embed one in their payload; the version store persists
// one row per (ContentID, VersionID).
type Snapshot struct {
	// ContentID is the stable logical content identifier, shared by every
	// version of the same item.
	ContentID string `json:"contentId"`

	// VersionID uniquely identifies this snapshot.
	VersionID string `json:"versionId"`

	// Latest marks the current working version. At most one stored
	// version per content id carries it.
	Latest bool `json:"latest"`

	// Published marks the version visible to end consumers. At most one
	// stored version per content id carries it; independent of Latest.
	Published bool `json:"published"`

	// ContentType names the schema the snapshot validates against.
	ContentType string `json:"contentType,omitempty"`

	// DisplayText is the human-readable title used in notifications.
	DisplayText string `json:"displayText,omitempty"`

	// Data holds the arbitrary structured fields of the content item.
	Data map[string]interface{} `json:"data,omitempty"`
}

// Detach clears the identity and version-flag fields so the snapshot can be
// treated as a new version candidate. A detached snapshot is never persisted
// as-is; the version store assigns it a fresh version id on create.
func (s *Snapshot) Detach() {
	s.VersionID = ""
	s.Latest = false
	s.Published = false
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	copied := *s
	if s.Data != nil {
		copied.Data = make(map[string]interface{}, len(s.Data))
		for k, v := range s.Data {
			copied.Data[k] = v
		}
	}
	return &copied
}
