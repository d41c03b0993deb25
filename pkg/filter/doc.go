// Package filter implements the audit trail filter-term engine: a small
// textual query grammar, its lossless mapping to a structured options model,
// and the translation of both into backing-store predicates.
//
// # Grammar
//
// Queries are whitespace-separated tokens. A token of the form key:value
// targets a named term; a bare token targets the default term; a bare token
// prefixed with '!' selects the exclusion branch of the default term.
//
//	id:4kjphjvtrqkkt5w6h5ev8q0etc category:Content sort:Event !admin
//
// # Terms
//
// id: exact match on correlation id.
// category: exact match, validated against the category registry; unknown
// category names filter nothing.
// sort: Timestamp (default), Category or Event; unparseable values fall
// back to the default ordering. Always enforced, even when absent.
// name (default term): substring match against the actor name, with a
// paired exclusion branch.
//
// # Usage Example
//
// Parse, render and evaluate:
//
//	registry := filter.NewRegistry()
//	opts := registry.Parse("category:Content sort:Event")
//	text := registry.Render(opts) // round-trips losslessly
//
//	evaluator := filter.NewEvaluator(registry, categories)
//	query, err := evaluator.Evaluate(ctx, text)
//
// The resulting Query is a store-agnostic list of predicates and orderings;
// pkg/trail compiles it to SQL or evaluates it in memory.
package filter
