package filter

import (
	"strings"
)

// negationMarker prefixes a bare token to select the exclusion branch of
// the default term.
const negationMarker = '!'

// token is one parsed unit of the query grammar. A keyed token targets a
// named term; a bare token targets the default term.
type token struct {
	key      string
	value    string
	excluded bool
}

// Registry holds the recognized filter terms in declaration order. Term
// order is significant: it fixes both evaluation order and the rendered
// order of a round-tripped query string.
type Registry struct {
	terms []Term
	def   DefaultTerm
}

// NewRegistry builds the registry with the standard terms: id, category,
// sort, and the default name term.
func NewRegistry() *Registry {
	return &Registry{
		terms: []Term{
			idTerm{},
			categoryTerm{},
			sortTerm{},
		},
		def: nameTerm{},
	}
}

// Terms returns the named terms in declaration order.
func (r *Registry) Terms() []Term {
	return r.terms
}

// Default returns the default term.
func (r *Registry) Default() DefaultTerm {
	return r.def
}

// tokenize splits a raw query string into tokens. Tokens are whitespace
// separated; key:value targets a named term, everything else is bare.
func (r *Registry) tokenize(raw string) []token {
	fields := strings.Fields(raw)
	tokens := make([]token, 0, len(fields))

	for _, field := range fields {
		if idx := strings.IndexByte(field, ':'); idx > 0 {
			key := field[:idx]
			if r.named(key) != nil {
				tokens = append(tokens, token{key: key, value: field[idx+1:]})
				continue
			}
			// Unknown keys contribute nothing; the grammar is permissive.
			continue
		}

		t := token{value: field}
		if field[0] == negationMarker {
			t.excluded = true
			t.value = field[1:]
		}
		if t.value != "" {
			tokens = append(tokens, t)
		}
	}

	return tokens
}

// named returns the term registered under key, or nil.
func (r *Registry) named(key string) Term {
	for _, term := range r.terms {
		if term.Name() == key {
			return term
		}
	}
	return nil
}

// Parse maps a raw query string into the structured options model.
func (r *Registry) Parse(raw string) Options {
	var opts Options

	for _, t := range r.tokenize(raw) {
		if t.key == "" {
			if t.excluded {
				r.def.MapToExcluded(t.value, &opts)
			} else {
				r.def.MapTo(t.value, &opts)
			}
			continue
		}
		r.named(t.key).MapTo(t.value, &opts)
	}

	return opts
}

// Render maps the options model back to its grammar form. Terms appear in
// declaration order and are omitted when MapFrom reports them absent, so
// Parse(Render(opts)) == opts and the output is stable and comparable.
func (r *Registry) Render(opts Options) string {
	var parts []string

	for _, term := range r.terms {
		if present, val := term.MapFrom(&opts); present {
			parts = append(parts, term.Name()+":"+val)
		}
	}
	if present, val := r.def.MapFrom(&opts); present {
		parts = append(parts, val)
	}

	return strings.Join(parts, " ")
}
