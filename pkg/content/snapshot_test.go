package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Detach(t *testing.T) {
	snap := &Snapshot{
		ContentID:   "c1",
		VersionID:   "v1",
		Latest:      true,
		Published:   true,
		ContentType: "article",
		DisplayText: "Hello",
		Data:        map[string]interface{}{"body": "text"},
	}

	snap.Detach()

	// Identity and flags are cleared; the logical id and content survive.
	assert.Empty(t, snap.VersionID)
	assert.False(t, snap.Latest)
	assert.False(t, snap.Published)
	assert.Equal(t, "c1", snap.ContentID)
	assert.Equal(t, "Hello", snap.DisplayText)
	assert.Equal(t, "text", snap.Data["body"])
}

func TestSnapshot_Clone(t *testing.T) {
	original := &Snapshot{
		ContentID: "c1",
		VersionID: "v1",
		Data:      map[string]interface{}{"body": "text"},
	}

	clone := original.Clone()
	clone.Data["body"] = "changed"
	clone.VersionID = "v2"

	assert.Equal(t, "text", original.Data["body"])
	assert.Equal(t, "v1", original.VersionID)

	var nilSnap *Snapshot
	assert.Nil(t, nilSnap.Clone())
}
