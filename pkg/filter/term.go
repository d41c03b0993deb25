package filter

import (
	"context"
	"fmt"
)

// Category describes one recognized event category.
type Category struct {
	Name string
}

// CategoryProvider lists the categories known to the system. Implementations
// are read-mostly registries initialized at process start.
type CategoryProvider interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// Context carries the external lookups term evaluation may need. It is
// injected into the evaluator at construction rather than resolved ad hoc.
type Context struct {
	Categories CategoryProvider
}

// Term is one recognized filter term. Apply extends the backing query with
// the term's predicate; MapTo and MapFrom maintain the two-way mapping
// between raw grammar values and the structured Options model.
type Term interface {
	// Name is the grammar key the term answers to.
	Name() string

	// AlwaysRun reports whether Apply runs even when the term is absent
	// from the input, so a default behavior is always enforced.
	AlwaysRun() bool

	// Apply folds the term's condition into the query. Unknown or
	// unparseable values contribute no predicate rather than failing the
	// whole query; only hard compose errors (e.g. a failing external
	// lookup) are returned.
	Apply(ctx context.Context, val string, query *Query, fc *Context) error

	// MapTo writes the parsed raw value into the options model.
	MapTo(val string, opts *Options)

	// MapFrom reports whether the term appears in a round-tripped query
	// string and with what raw value.
	MapFrom(opts *Options) (present bool, val string)
}

// DefaultTerm matches bare, unkeyed tokens and carries a paired exclusion
// branch. The grammar layer decides which branch an input token selects via
// the negation marker.
type DefaultTerm interface {
	Term

	// ApplyExcluded is the exclusion branch of Apply.
	ApplyExcluded(ctx context.Context, val string, query *Query, fc *Context) error

	// MapToExcluded writes the parsed value into the options model with
	// exclusion semantics.
	MapToExcluded(val string, opts *Options)
}

// idTerm matches exactly on correlation id.
type idTerm struct{}

func (idTerm) Name() string    { return "id" }
func (idTerm) AlwaysRun() bool { return false }

func (idTerm) Apply(_ context.Context, val string, query *Query, _ *Context) error {
	if val != "" {
		query.Where(FieldCorrelationID, OpEquals, val)
	}
	return nil
}

func (idTerm) MapTo(val string, opts *Options) {
	opts.CorrelationID = val
}

func (idTerm) MapFrom(opts *Options) (bool, string) {
	if opts.CorrelationID != "" {
		return true, opts.CorrelationID
	}
	return false, ""
}

// categoryTerm matches exactly on category, but only after confirming the
// value names a known category. Unknown names filter nothing.
type categoryTerm struct{}

func (categoryTerm) Name() string    { return "category" }
func (categoryTerm) AlwaysRun() bool { return false }

func (categoryTerm) Apply(ctx context.Context, val string, query *Query, fc *Context) error {
	if val == "" || fc == nil || fc.Categories == nil {
		return nil
	}

	categories, err := fc.Categories.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	for _, category := range categories {
		if category.Name == val {
			query.Where(FieldCategory, OpEquals, category.Name)
			break
		}
	}

	return nil
}

func (categoryTerm) MapTo(val string, opts *Options) {
	opts.Category = val
}

func (categoryTerm) MapFrom(opts *Options) (bool, string) {
	if opts.Category != "" {
		return true, opts.Category
	}
	return false, ""
}

// sortTerm selects the listing order. It always runs so the default
// timestamp ordering is enforced even without a sort token.
type sortTerm struct{}

func (sortTerm) Name() string    { return "sort" }
func (sortTerm) AlwaysRun() bool { return true }

func (sortTerm) Apply(_ context.Context, val string, query *Query, _ *Context) error {
	// Unparseable values fall back to the default ordering.
	key, _ := ParseSortKey(val)
	query.OrderBy(orderingsFor(key)...)
	return nil
}

// orderingsFor maps each sort key to its (primary, secondary) ordering tuple.
func orderingsFor(key SortKey) []Ordering {
	switch key {
	case SortCategory:
		return []Ordering{
			{Field: FieldCategory, Direction: Ascending},
			{Field: FieldCreatedUtc, Direction: Descending},
		}
	case SortEvent:
		return []Ordering{
			{Field: FieldName, Direction: Ascending},
			{Field: FieldCreatedUtc, Direction: Descending},
		}
	default:
		return []Ordering{
			{Field: FieldCreatedUtc, Direction: Descending},
		}
	}
}

func (sortTerm) MapTo(val string, opts *Options) {
	if key, ok := ParseSortKey(val); ok {
		opts.Sort = key
	}
}

func (sortTerm) MapFrom(opts *Options) (bool, string) {
	if opts.Sort != SortTimestamp {
		return true, opts.Sort.String()
	}
	return false, ""
}

// nameTerm is the default term: substring match against the actor name,
// with a paired exclusion branch selected by the negation marker.
type nameTerm struct{}

func (nameTerm) Name() string    { return "name" }
func (nameTerm) AlwaysRun() bool { return false }

func (nameTerm) Apply(_ context.Context, val string, query *Query, _ *Context) error {
	if val != "" {
		query.Where(FieldActorName, OpContains, val)
	}
	return nil
}

func (nameTerm) ApplyExcluded(_ context.Context, val string, query *Query, _ *Context) error {
	if val != "" {
		query.Where(FieldActorName, OpNotContains, val)
	}
	return nil
}

func (nameTerm) MapTo(val string, opts *Options) {
	opts.Name = val
	opts.NameExcluded = false
}

func (nameTerm) MapToExcluded(val string, opts *Options) {
	opts.Name = val
	opts.NameExcluded = true
}

func (nameTerm) MapFrom(opts *Options) (bool, string) {
	if opts.Name == "" {
		return false, ""
	}
	if opts.NameExcluded {
		return true, string(negationMarker) + opts.Name
	}
	return true, opts.Name
}
