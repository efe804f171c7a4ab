package suppress

import (
	"sync"

	"movelint/internal/directive"
	"movelint/internal/lint"
	"movelint/internal/source"
)

// Level is the effective suppression level a Resolver computes for one
// diagnostic occurrence.
type Level uint8

const (
	// LevelDefault means no directive matched; the caller's own
	// tier/severity rules apply unmodified.
	LevelDefault Level = iota
	// LevelOff means the diagnostic must be dropped (allow, or expect).
	LevelOff
	// LevelError means the diagnostic's severity is promoted to error
	// (deny).
	LevelError
)

// Resolver walks a Tree to answer "what does this (lint, span) resolve
// to", and tracks which expect directives were discharged along the way.
//
// Grounded on the teacher's diag.ReportBuilder/BagReporter split: the
// resolver is a pure lookup, with no reporting side effect of its own,
// the same way the teacher's builder only accumulates until Emit.
type Resolver struct {
	mu        sync.Mutex
	tree      *Tree
	fulfilled map[*directive.Directive]bool
}

// NewResolver creates a Resolver bound to one file's scope tree.
func NewResolver(tree *Tree) *Resolver {
	return &Resolver{tree: tree, fulfilled: make(map[*directive.Directive]bool)}
}

// Resolve finds the innermost enclosing scope for span, then walks
// directives from that scope outward to the module/file root, matching by
// (lintName, category) per spec.md §4.5. The first match wins; an expect
// match is recorded as fulfilled.
func (r *Resolver) Resolve(lintName string, category lint.Category, span source.Span) Level {
	node := r.tree.Innermost(span)
	categoryName := category.String()

	for n := node; n != nil; n = n.Parent {
		for _, d := range n.Directives {
			if d.Target != lintName && d.Target != categoryName {
				continue
			}
			switch d.Kind {
			case directive.KindAllow:
				return LevelOff
			case directive.KindDeny:
				return LevelError
			case directive.KindExpect:
				r.markFulfilled(d)
				return LevelOff
			}
		}
	}
	return LevelDefault
}

func (r *Resolver) markFulfilled(d *directive.Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fulfilled[d] = true
}

// Unfulfilled returns every expect directive in the tree that was never
// matched by Resolve, per spec.md §4.5's expectation-discharge pass. The
// driver calls this once, after every phase has finished, per spec.md
// §4.5's ordering guarantee ("expectation discharge happens once, after
// all phases").
func (r *Resolver) Unfulfilled() []*directive.Directive {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*directive.Directive
	for _, d := range r.tree.Expectations() {
		if !r.fulfilled[d] {
			out = append(out, d)
		}
	}
	return out
}
