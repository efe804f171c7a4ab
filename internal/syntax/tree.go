// Package syntax is the syntactic parser and rule registry (spec.md §4.4,
// the C4 component). It consumes directive-masked source bytes and
// produces a concrete tree of generically-kinded nodes, the same way a
// tree-sitter grammar would, and dispatches registered SyntaxRules over
// that tree. There is no bundled tree-sitter grammar for Move anywhere in
// the Go ecosystem (go-tree-sitter ships grammars only for the languages
// under github.com/smacker/go-tree-sitter/<lang>, none of them Move), so
// this package hand-rolls the scanner instead — see DESIGN.md for the
// full reasoning.
package syntax

import "movelint/internal/source"

// Node-kind constants. The four referenced directly by spec.md §4.4
// ("node-kind contracts the core depends on") are macroCall,
// blockComment, lineComment, and annotation; the rest describe the
// surrounding item structure rules walk through to reach them.
const (
	KindSourceFile          = "source_file"
	KindModuleDefinition    = "module_definition"
	KindStructDefinition    = "struct_definition"
	KindFunctionDefinition  = "function_definition"
	KindUseDeclaration      = "use_declaration"
	KindConstDeclaration    = "const_declaration"
	KindAnnotation          = "annotation"
	KindBlockComment        = "block_comment"
	KindLineComment         = "line_comment"
	KindMacroCallExpression = "macro_call_expression"
	KindMacroModuleAccess   = "macro_module_access"
	KindBlock               = "block"
	KindVectorLiteral       = "vector_literal_expression"
	KindWhileExpression     = "while_expression"
)

// Node is one node of the concrete syntax tree. Kind is matched exactly by
// rules (spec.md §4.4: "rules prefer exact node-kind matching... substring
// matching is permitted only when justified by a rule-local comment").
type Node struct {
	Kind     string
	Span     source.Span
	Text     string
	Children []*Node
}

// NamedChild returns the first direct child of the given kind, or nil.
func (n *Node) NamedChild(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Walk calls visit for n and every descendant, depth-first. Rules that
// need to inspect the whole subtree (the common case, since spec.md §4.4
// requires rules to recurse into children) should build on this instead
// of hand-rolling their own recursion.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// FindAll returns every descendant node (including n itself) with the
// given kind, in document order.
func (n *Node) FindAll(kind string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Kind == kind {
			out = append(out, c)
		}
	})
	return out
}

// Tree is a parsed file: its root node plus the file it was parsed from.
type Tree struct {
	File source.FileID
	Root *Node
}

// ItemSpans collects the span of every node the suppression scope tree
// (internal/suppress) should treat as an attachable item — everything
// except the root, comments, and annotations, which carry no suppression
// scope of their own.
func (t *Tree) ItemSpans() []source.Span {
	var spans []source.Span
	t.Root.Walk(func(n *Node) {
		switch n.Kind {
		case "", KindSourceFile, KindLineComment, KindBlockComment, KindAnnotation:
			return
		}
		spans = append(spans, n.Span)
	})
	return spans
}
