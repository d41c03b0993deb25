package filter

import "strings"

// SortKey selects the ordering applied to an event listing.
type SortKey int

const (
	// SortTimestamp orders by creation time, newest first. This is the
	// default and is always enforced when no sort term is present.
	SortTimestamp SortKey = iota
	// SortCategory orders by category ascending, ties newest first.
	SortCategory
	// SortEvent orders by event name ascending, ties newest first.
	SortEvent
)

// String returns the grammar spelling of the sort key.
func (k SortKey) String() string {
	switch k {
	case SortCategory:
		return "Category"
	case SortEvent:
		return "Event"
	default:
		return "Timestamp"
	}
}

// ParseSortKey parses a sort key case-insensitively. The second return is
// false when the value is not a recognized key.
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(s) {
	case "timestamp":
		return SortTimestamp, true
	case "category":
		return SortCategory, true
	case "event":
		return SortEvent, true
	default:
		return SortTimestamp, false
	}
}

// Options is the structured form of a filter query string. It round-trips
// losslessly through Registry.Parse and Registry.Render.
type Options struct {
	// CorrelationID filters to events sharing one correlation id.
	CorrelationID string
	// Category filters to one event category.
	Category string
	// Sort selects the listing order. Zero value is SortTimestamp.
	Sort SortKey
	// Name is the actor name pattern matched by the default term.
	Name string
	// NameExcluded selects the exclusion branch of the default term:
	// events whose actor name matches Name are filtered out.
	NameExcluded bool
}
