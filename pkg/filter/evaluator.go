package filter

import (
	"context"
	"fmt"
)

// Evaluator applies the term registry against a backing query. Evaluation
// is read-only and stateless across calls; one evaluator is safe under
// unbounded concurrent use.
type Evaluator struct {
	registry *Registry
	fc       *Context
}

// NewEvaluator creates an evaluator bound to a registry and the external
// lookups terms may need.
func NewEvaluator(registry *Registry, categories CategoryProvider) *Evaluator {
	return &Evaluator{
		registry: registry,
		fc:       &Context{Categories: categories},
	}
}

// Evaluate folds every registered term's Apply over a fresh query in
// declaration order. Terms producing no predicate never short-circuit the
// fold; only hard compose errors do. Terms flagged AlwaysRun execute even
// when absent from the input.
func (e *Evaluator) Evaluate(ctx context.Context, raw string) (*Query, error) {
	query := NewQuery()
	tokens := e.registry.tokenize(raw)

	for _, term := range e.registry.Terms() {
		seen := false
		for _, t := range tokens {
			if t.key != term.Name() {
				continue
			}
			seen = true
			if err := term.Apply(ctx, t.value, query, e.fc); err != nil {
				return nil, fmt.Errorf("term %q: %w", term.Name(), err)
			}
		}
		if !seen && term.AlwaysRun() {
			if err := term.Apply(ctx, "", query, e.fc); err != nil {
				return nil, fmt.Errorf("term %q: %w", term.Name(), err)
			}
		}
	}

	def := e.registry.Default()
	for _, t := range tokens {
		if t.key != "" {
			continue
		}
		var err error
		if t.excluded {
			err = def.ApplyExcluded(ctx, t.value, query, e.fc)
		} else {
			err = def.Apply(ctx, t.value, query, e.fc)
		}
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", def.Name(), err)
		}
	}

	return query, nil
}

// EvaluateOptions evaluates a query built from an options model rather
// than raw text.
func (e *Evaluator) EvaluateOptions(ctx context.Context, opts Options) (*Query, error) {
	return e.Evaluate(ctx, e.registry.Render(opts))
}
