package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticCategories is a fixed CategoryProvider for tests.
type staticCategories []string

func (s staticCategories) ListCategories(context.Context) ([]Category, error) {
	out := make([]Category, len(s))
	for i, name := range s {
		out[i] = Category{Name: name}
	}
	return out, nil
}

// failingCategories always errors.
type failingCategories struct{}

func (failingCategories) ListCategories(context.Context) ([]Category, error) {
	return nil, errors.New("registry unavailable")
}

func newTestEvaluator(categories CategoryProvider) *Evaluator {
	return NewEvaluator(NewRegistry(), categories)
}

func TestEvaluator_Evaluate(t *testing.T) {
	ctx := context.Background()
	evaluator := newTestEvaluator(staticCategories{"Content", "User"})

	tests := []struct {
		name      string
		raw       string
		wantPreds []Predicate
		wantOrder []Ordering
	}{
		{
			name:      "empty query still enforces default sort",
			raw:       "",
			wantPreds: nil,
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name:      "correlation id predicate",
			raw:       "id:abc",
			wantPreds: []Predicate{{Field: FieldCorrelationID, Op: OpEquals, Value: "abc"}},
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name:      "known category filters",
			raw:       "category:Content",
			wantPreds: []Predicate{{Field: FieldCategory, Op: OpEquals, Value: "Content"}},
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name:      "unknown category filters nothing",
			raw:       "category:Bogus",
			wantPreds: nil,
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name: "category sort has secondary timestamp axis",
			raw:  "sort:Category",
			wantOrder: []Ordering{
				{Field: FieldCategory, Direction: Ascending},
				{Field: FieldCreatedUtc, Direction: Descending},
			},
		},
		{
			name: "event sort orders by name",
			raw:  "sort:Event",
			wantOrder: []Ordering{
				{Field: FieldName, Direction: Ascending},
				{Field: FieldCreatedUtc, Direction: Descending},
			},
		},
		{
			name:      "unparseable sort falls back to default",
			raw:       "sort:sideways",
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name:      "bare token becomes contains predicate",
			raw:       "alice",
			wantPreds: []Predicate{{Field: FieldActorName, Op: OpContains, Value: "alice"}},
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name:      "negated token becomes not-contains predicate",
			raw:       "!alice",
			wantPreds: []Predicate{{Field: FieldActorName, Op: OpNotContains, Value: "alice"}},
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
		{
			name: "terms fold in declaration order",
			raw:  "bob category:User id:abc",
			wantPreds: []Predicate{
				{Field: FieldCorrelationID, Op: OpEquals, Value: "abc"},
				{Field: FieldCategory, Op: OpEquals, Value: "User"},
				{Field: FieldActorName, Op: OpContains, Value: "bob"},
			},
			wantOrder: []Ordering{{Field: FieldCreatedUtc, Direction: Descending}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := evaluator.Evaluate(ctx, tt.raw)
			require.NoError(t, err)

			if tt.wantPreds == nil {
				assert.Empty(t, query.Predicates())
			} else {
				assert.Equal(t, tt.wantPreds, query.Predicates())
			}
			assert.Equal(t, tt.wantOrder, query.Orderings())
		})
	}
}

func TestEvaluator_SortReapplicationIsIdempotent(t *testing.T) {
	evaluator := newTestEvaluator(staticCategories{})

	query, err := evaluator.Evaluate(context.Background(), "sort:Category sort:Event")
	require.NoError(t, err)

	// Only one sort axis survives: the last write wins deterministically.
	assert.Equal(t, []Ordering{
		{Field: FieldName, Direction: Ascending},
		{Field: FieldCreatedUtc, Direction: Descending},
	}, query.Orderings())
}

func TestEvaluator_CategoryLookupErrorPropagates(t *testing.T) {
	evaluator := newTestEvaluator(failingCategories{})

	_, err := evaluator.Evaluate(context.Background(), "category:Content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestEvaluator_NilCategoryProviderIsPermissive(t *testing.T) {
	evaluator := newTestEvaluator(nil)

	query, err := evaluator.Evaluate(context.Background(), "category:Content")
	require.NoError(t, err)
	assert.Empty(t, query.Predicates())
}

func TestEvaluator_EvaluateOptions(t *testing.T) {
	evaluator := newTestEvaluator(staticCategories{"Content"})

	query, err := evaluator.EvaluateOptions(context.Background(), Options{
		Category: "Content",
		Sort:     SortEvent,
	})
	require.NoError(t, err)

	assert.Equal(t, []Predicate{{Field: FieldCategory, Op: OpEquals, Value: "Content"}}, query.Predicates())
	assert.Equal(t, []Ordering{
		{Field: FieldName, Direction: Ascending},
		{Field: FieldCreatedUtc, Direction: Descending},
	}, query.Orderings())
}
