// Package suppress builds the per-file Suppression Scope Tree (spec.md §3,
// §4.5) from a parsed item tree and a set of directives, and resolves a
// diagnostic's span to its effective suppression level.
package suppress

import (
	"sort"

	"movelint/internal/directive"
	"movelint/internal/source"
)

// ScopeNode is one node of the ordered forest: a source span (an item or
// the whole file) carrying the directives attached to it and its nested
// children.
type ScopeNode struct {
	Span       source.Span
	Directives []*directive.Directive
	Children   []*ScopeNode
	Parent     *ScopeNode
}

// Tree is the Suppression Scope Tree for one file: a single root node
// spanning the whole file/module, with item scopes nested beneath it by
// span containment.
type Tree struct {
	Root *ScopeNode
	// expectations collects every expect directive seen during Build, the
	// set Resolver.Unfulfilled walks at expectation-discharge time.
	expectations []*directive.Directive
}

// Build constructs the scope tree for one file. itemSpans are the spans of
// every item (function, struct, module, ...) the syntactic parser
// identified; directives are every Directive internal/directive.Parse
// extracted from the same file.
//
// Containment forest construction is grounded on internal/source.Span's
// containment/ordering helpers (Contains, IsLeftThan) the same way the
// teacher's internal/symbols builds a scope stack from nested spans.
func Build(fileSpan source.Span, itemSpans []source.Span, directives []directive.Directive) *Tree {
	root := &ScopeNode{Span: fileSpan}
	tree := &Tree{Root: root}

	sorted := append([]source.Span(nil), itemSpans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := sorted[i].Len(), sorted[j].Len()
		if li != lj {
			return li > lj // larger (containing) spans inserted first
		}
		return sorted[i].Start < sorted[j].Start
	})

	for _, s := range sorted {
		insert(root, s)
	}

	for i := range directives {
		d := &directives[i]
		if d.Kind == directive.KindExpect {
			tree.expectations = append(tree.expectations, d)
		}

		if d.Scope == directive.ScopeModule {
			root.Directives = append(root.Directives, d)
			continue
		}

		target := findAttachment(tree, d.AttachmentSpan)
		target.Directives = append(target.Directives, d)
	}

	return tree
}

// insert places a new scope node under the deepest existing node that
// contains it, creating the containment forest one span at a time.
func insert(parent *ScopeNode, span source.Span) *ScopeNode {
	for _, child := range parent.Children {
		if child.Span.Contains(span) {
			return insert(child, span)
		}
	}
	node := &ScopeNode{Span: span, Parent: parent}
	parent.Children = append(parent.Children, node)
	return node
}

// findAttachment locates the scope an item-level directive belongs to.
// A directive precedes the item it decorates, so the attachment point is:
// the deepest existing scope that already encloses the directive's own
// span, then — within that scope's direct children — whichever child
// starts soonest at or after the directive ends (the item it immediately
// precedes). If that scope has no such child, the directive attaches to
// the scope itself (e.g. a trailing directive with nothing left to
// decorate).
func findAttachment(tree *Tree, directiveSpan source.Span) *ScopeNode {
	enclosing := tree.Innermost(directiveSpan)

	var nearest *ScopeNode
	for _, c := range enclosing.Children {
		if c.Span.Start >= directiveSpan.End {
			if nearest == nil || c.Span.Start < nearest.Span.Start {
				nearest = c
			}
		}
	}
	if nearest != nil {
		return nearest
	}
	return enclosing
}

// Innermost finds the deepest scope node whose span encloses span,
// falling back to the root (whole-file) scope.
func (t *Tree) Innermost(span source.Span) *ScopeNode {
	node := t.Root
	for {
		advanced := false
		for _, c := range node.Children {
			if c.Span.Contains(span) {
				node = c
				advanced = true
				break
			}
		}
		if !advanced {
			return node
		}
	}
}

// Expectations returns every expect directive registered in this tree.
func (t *Tree) Expectations() []*directive.Directive {
	return append([]*directive.Directive(nil), t.expectations...)
}
