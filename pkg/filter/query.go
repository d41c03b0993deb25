package filter

// Field identifies an event index attribute usable as a filter or sort key.
type Field int

const (
	FieldCorrelationID Field = iota
	FieldCategory
	FieldName
	FieldActorName
	FieldCreatedUtc
)

// String returns the canonical field name.
func (f Field) String() string {
	switch f {
	case FieldCorrelationID:
		return "correlation_id"
	case FieldCategory:
		return "category"
	case FieldName:
		return "name"
	case FieldActorName:
		return "actor_name"
	case FieldCreatedUtc:
		return "created_utc"
	default:
		return "unknown"
	}
}

// Op is the comparison a predicate applies to its field.
type Op int

const (
	OpEquals Op = iota
	OpContains
	OpNotContains
)

// Predicate is a single backing-store condition over one index field.
type Predicate struct {
	Field Field
	Op    Op
	Value string
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Ordering is one sort axis over an index field.
type Ordering struct {
	Field     Field
	Direction Direction
}

// Query is the backing query terms fold their predicates and orderings into.
// It is a plain description of conditions; stores compile it to their own
// representation (SQL, in-memory matching).
type Query struct {
	predicates []Predicate
	orderings  []Ordering
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Where appends a predicate.
func (q *Query) Where(field Field, op Op, value string) *Query {
	q.predicates = append(q.predicates, Predicate{Field: field, Op: op, Value: value})
	return q
}

// OrderBy replaces the query's ordering wholesale. Reapplication is
// idempotent: the last caller for the sort axis wins.
func (q *Query) OrderBy(orderings ...Ordering) *Query {
	q.orderings = append(q.orderings[:0], orderings...)
	return q
}

// Predicates returns the accumulated predicates in application order.
func (q *Query) Predicates() []Predicate {
	return q.predicates
}

// Orderings returns the current sort axes, primary first.
func (q *Query) Orderings() []Ordering {
	return q.orderings
}
