package directive

import "sync"

// Registry collects every directive parsed across a lint run, indexed by
// target so internal/suppress and expectation discharge can look them up
// without re-scanning source. The mutex-guarded slice plus index-map shape
// mirrors the teacher's sync.Mutex-guarded directive registry; here the
// index is keyed by target name instead of namespace.
type Registry struct {
	mu       sync.Mutex
	entries  []Directive
	byTarget map[string][]int
	invalid  []Invalid
}

// NewRegistry creates an empty directive registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make([]Directive, 0),
		byTarget: make(map[string][]int),
	}
}

// Add registers a single parsed directive.
func (r *Registry) Add(d Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := len(r.entries)
	r.entries = append(r.entries, d)
	r.byTarget[d.Target] = append(r.byTarget[d.Target], idx)
}

// AddInvalid records a malformed directive-looking construct so the driver
// can report one invalid_directive pseudo-lint note per occurrence.
func (r *Registry) AddInvalid(inv Invalid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid = append(r.invalid, inv)
}

// AddParsed merges a whole ParseResult (as produced by Parse for one file)
// into the registry.
func (r *Registry) AddParsed(result ParseResult) {
	for _, d := range result.Directives {
		r.Add(d)
	}
	for _, inv := range result.Invalid {
		r.AddInvalid(inv)
	}
}

// All returns every registered directive.
func (r *Registry) All() []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Directive(nil), r.entries...)
}

// Invalid returns every malformed directive-looking construct seen so far.
func (r *Registry) Invalid() []Invalid {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invalid(nil), r.invalid...)
}

// ByTarget returns every directive naming the given target (lint name or
// category), in registration order.
func (r *Registry) ByTarget(target string) []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()

	idxs := r.byTarget[target]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Directive, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, r.entries[i])
	}
	return out
}

// Expectations returns every expect directive registered so far, the set
// internal/suppress walks during expectation discharge.
func (r *Registry) Expectations() []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Directive
	for _, d := range r.entries {
		if d.Kind == KindExpect {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the total number of registered directives.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
