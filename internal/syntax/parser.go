package syntax

import "movelint/internal/source"

// Parse builds the concrete syntax tree for one file's (already directive-
// masked) source bytes. It never fails: unrecognized constructs simply
// don't produce a node, the same way an unresolved grammar rule in a real
// tree-sitter parse just falls back to an ERROR node further down — this
// parser's failure mode is "missed item", not "rejected file", since a
// lint engine should still analyze whatever it can recognize in a file it
// doesn't fully understand.
func Parse(file source.FileID, src []byte) *Tree {
	toks := tokenize(file, src)
	root := &Node{Kind: KindSourceFile}
	root.Children, _ = parseItems(toks, src, file, 0, len(toks)-1) // stop before EOF token
	if len(toks) > 0 {
		root.Span = source.Span{File: file, Start: 0, End: toks[len(toks)-1].span.End}
	}
	return &Tree{File: file, Root: root}
}

// modifierKeyword reports whether text is a Move visibility/behavior
// modifier that can precede "fun" or "struct" without starting a
// construct of its own.
func modifierKeyword(text string) bool {
	switch text {
	case "public", "entry", "native", "friend", "inline", "package":
		return true
	default:
		return false
	}
}

// parseItems walks tokens[pos:stop), producing one node per recognized
// item and skipping everything else, and returns the position it reached
// (== stop on normal completion).
func parseItems(toks []tok, src []byte, file source.FileID, pos, stop int) ([]*Node, int) {
	var nodes []*Node
	for pos < stop && toks[pos].kind != tokEOF {
		var n *Node
		n, pos = parseOne(toks, src, file, pos, stop)
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, pos
}

func parseOne(toks []tok, src []byte, file source.FileID, pos, stop int) (*Node, int) {
	t := toks[pos]

	switch t.kind {
	case tokLineComment:
		return &Node{Kind: KindLineComment, Span: t.span, Text: t.text}, pos + 1

	case tokBlockComment:
		return &Node{Kind: KindBlockComment, Span: t.span, Text: t.text}, pos + 1

	case tokHash:
		if pos+1 < len(toks) && toks[pos+1].kind == tokLBracket {
			close := matchClose(toks, pos+1, tokLBracket, tokRBracket)
			inner := ""
			if pos+2 <= close && close <= len(toks) {
				inner = string(sliceBetween(src, toks[pos+2:close]))
			}
			return &Node{
				Kind: KindAnnotation,
				Span: t.span.Cover(toks[close].span),
				Text: inner,
			}, close + 1
		}
		return nil, pos + 1

	case tokIdent:
		switch t.text {
		case "module":
			return parseBraced(toks, src, file, pos, KindModuleDefinition, true)
		case "struct", "enum":
			return parseBraced(toks, src, file, pos, KindStructDefinition, false)
		case "fun":
			return parseFunction(toks, src, file, pos)
		case "use":
			return parseUntilSemicolon(toks, pos, KindUseDeclaration)
		case "const":
			return parseUntilSemicolon(toks, pos, KindConstDeclaration)
		case "while":
			return parseWhile(toks, src, file, pos)
		case "vector":
			if pos+1 < len(toks) && toks[pos+1].kind == tokLBracket {
				close := matchClose(toks, pos+1, tokLBracket, tokRBracket)
				text := ""
				if pos+2 <= close {
					text = string(sliceBetween(src, toks[pos+2:close]))
				}
				return &Node{Kind: KindVectorLiteral, Span: t.span.Cover(toks[close].span), Text: text}, close + 1
			}
		}
		if modifierKeyword(t.text) {
			return nil, pos + 1
		}
		if call, next, ok := tryMacroCall(toks, src, file, pos); ok {
			return call, next
		}
		return nil, pos + 1

	case tokLBrace:
		close := matchClose(toks, pos, tokLBrace, tokRBrace)
		children, _ := parseItems(toks, src, file, pos+1, close)
		return &Node{Kind: KindBlock, Span: t.span.Cover(toks[close].span), Children: children}, close + 1

	case tokLParen:
		close := matchClose(toks, pos, tokLParen, tokRParen)
		// Parens outside a recognized construct (grouping, call args,
		// tuple expressions) aren't a container the rules care about;
		// whatever interesting nodes live inside are wrapped in a kindless
		// node, which FindAll and ItemSpans walk straight through.
		inner, _ := parseItems(toks, src, file, pos+1, close)
		return &Node{Kind: "", Span: t.span, Children: inner}, close + 1

	case tokLBracket:
		close := matchClose(toks, pos, tokLBracket, tokRBracket)
		inner, _ := parseItems(toks, src, file, pos+1, close)
		return &Node{Kind: "", Span: t.span, Children: inner}, close + 1

	default:
		return nil, pos + 1
	}
}

// parseBraced handles `module path { ... }` and `struct Name has ab { ... }`
// style headers: skip the header tokens up to the opening brace (or a bare
// terminating semicolon, for headerless forward forms), then recurse into
// the body. The trailing bool is unused: modules and structs both attach
// their body's top-level items as direct children.
func parseBraced(toks []tok, src []byte, file source.FileID, pos int, kind string, _ bool) (*Node, int) {
	start := pos
	i := pos + 1
	for i < len(toks) && toks[i].kind != tokLBrace && toks[i].kind != tokSemicolon && toks[i].kind != tokEOF {
		i++
	}
	if i >= len(toks) || toks[i].kind != tokLBrace {
		end := i
		if end >= len(toks) {
			end = len(toks) - 1
		}
		return &Node{Kind: kind, Span: toks[start].span.Cover(toks[end].span)}, i + 1
	}
	close := matchClose(toks, i, tokLBrace, tokRBrace)
	children, _ := parseItems(toks, src, file, i+1, close)
	return &Node{Kind: kind, Span: toks[start].span.Cover(toks[close].span), Children: children}, close + 1
}

func parseFunction(toks []tok, src []byte, file source.FileID, pos int) (*Node, int) {
	start := pos
	i := pos + 1
	for i < len(toks) && toks[i].kind != tokLBrace && toks[i].kind != tokSemicolon && toks[i].kind != tokEOF {
		i++
	}
	if i >= len(toks) || toks[i].kind != tokLBrace {
		end := i
		if end >= len(toks) {
			end = len(toks) - 1
		}
		return &Node{Kind: KindFunctionDefinition, Span: toks[start].span.Cover(toks[end].span)}, i + 1
	}
	close := matchClose(toks, i, tokLBrace, tokRBrace)
	children, _ := parseItems(toks, src, file, i+1, close)
	return &Node{Kind: KindFunctionDefinition, Span: toks[start].span.Cover(toks[close].span), Children: children}, close + 1
}

// parseWhile handles `while (cond) { body }`, capturing cond's raw text so
// rules can match it exactly (e.g. `while (true)`) rather than walking a
// full expression tree we don't otherwise build.
func parseWhile(toks []tok, src []byte, file source.FileID, pos int) (*Node, int) {
	start := pos
	i := pos + 1
	for i < len(toks) && toks[i].kind != tokLParen && toks[i].kind != tokEOF {
		i++
	}
	if i >= len(toks) || toks[i].kind != tokLParen {
		return nil, pos + 1
	}
	parenClose := matchClose(toks, i, tokLParen, tokRParen)
	cond := ""
	if i+1 <= parenClose {
		cond = string(sliceBetween(src, toks[i+1:parenClose]))
	}

	j := parenClose + 1
	for j < len(toks) && toks[j].kind != tokLBrace && toks[j].kind != tokEOF {
		j++
	}
	if j >= len(toks) || toks[j].kind != tokLBrace {
		return &Node{Kind: KindWhileExpression, Span: toks[start].span.Cover(toks[parenClose].span), Text: cond}, j + 1
	}
	close := matchClose(toks, j, tokLBrace, tokRBrace)
	children, _ := parseItems(toks, src, file, j+1, close)
	return &Node{Kind: KindWhileExpression, Span: toks[start].span.Cover(toks[close].span), Text: cond, Children: children}, close + 1
}

func parseUntilSemicolon(toks []tok, pos int, kind string) (*Node, int) {
	i := pos + 1
	for i < len(toks) && toks[i].kind != tokSemicolon && toks[i].kind != tokEOF {
		i++
	}
	end := i
	if end >= len(toks) {
		end = len(toks) - 1
	}
	return &Node{Kind: kind, Span: toks[pos].span.Cover(toks[end].span)}, i + 1
}

// tryMacroCall recognizes `ident(::ident)* ! (` without committing to any
// tokens unless the whole pattern matches, per the macro_call_expression /
// macro_module_access node-kind contract (spec.md §4.4).
func tryMacroCall(toks []tok, src []byte, file source.FileID, pos int) (*Node, int, bool) {
	j := pos + 1
	for j+1 < len(toks) && toks[j].kind == tokColonColon && toks[j+1].kind == tokIdent {
		j += 2
	}
	lastIdent := j - 1
	if j >= len(toks) || toks[j].kind != tokBang {
		return nil, pos, false
	}
	if j+1 >= len(toks) || toks[j+1].kind != tokLParen {
		return nil, pos, false
	}
	parenPos := j + 1
	close := matchClose(toks, parenPos, tokLParen, tokRParen)

	access := &Node{
		Kind: KindMacroModuleAccess,
		Span: toks[pos].span.Cover(toks[lastIdent].span),
		Text: string(sliceBetween(src, toks[pos:lastIdent+1])),
	}
	args, _ := parseItems(toks, src, file, parenPos+1, close)
	children := append([]*Node{access}, args...)
	call := &Node{
		Kind:     KindMacroCallExpression,
		Span:     toks[pos].span.Cover(toks[close].span),
		Children: children,
	}
	return call, close + 1, true
}

// matchClose scans forward from openPos (the opening token itself) for the
// depth-balanced closing token, returning its index, or the last token's
// index if the source never closes it.
func matchClose(toks []tok, openPos int, open, closeKind kind) int {
	depth := 0
	for i := openPos; i < len(toks); i++ {
		switch toks[i].kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks) - 1
}

func sliceBetween(src []byte, toks []tok) []byte {
	if len(toks) == 0 {
		return nil
	}
	start := toks[0].span.Start
	end := toks[len(toks)-1].span.End
	if int(end) > len(src) {
		end = uint32(len(src))
	}
	return src[start:end]
}
