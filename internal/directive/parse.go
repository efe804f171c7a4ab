package directive

import (
	"regexp"
	"strings"

	"movelint/internal/source"
)

// headRe locates the start of any candidate directive construct: a fast-mode
// item attribute `#[`, a fast-mode module attribute `#![`, or the start of
// either wrapped in the full-mode `ext(move_clippy(...))` namespace.
var headRe = regexp.MustCompile(`#!?\[`)

// bodyRe matches a fully well-formed directive once its enclosing brackets
// have been located. Group 1 is the optional "ext(move_clippy(" wrapper,
// group 2 is the verb, group 3 is the comma-separated target list.
var bodyRe = regexp.MustCompile(`^(ext\(move_clippy\()?(allow|deny|expect)\(([^()]+)\)\)?\)?$`)

var targetRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ParseResult is everything Parse extracted from one file's source bytes.
type ParseResult struct {
	Directives []Directive
	Invalid    []Invalid
	// Masked is src with every recognized or attempted directive construct
	// blanked out, ready to hand to internal/syntax.
	Masked []byte
}

// Parse scans src for fast-mode (`#[allow(lint::NAME)]`, `#![...]`) and
// full-mode (`#[ext(move_clippy(allow(NAME)))]`) directives per spec.md
// §4.3. Malformed constructs that merely look like a directive are
// collected as Invalid rather than aborting the scan.
func Parse(file source.FileID, src []byte) ParseResult {
	var result ParseResult
	var ranges [][2]int

	for _, loc := range headRe.FindAllIndex(src, -1) {
		start := loc[0]
		scope := ScopeItem
		if src[start+1] == '!' {
			scope = ScopeModule
		}
		openBracket := loc[1] - 1

		end, ok := matchingBracket(src, openBracket)
		if !ok {
			continue
		}
		full := src[start : end+1]
		inner := strings.TrimSpace(string(full[openBracket-start+1 : len(full)-1]))
		if !strings.HasPrefix(inner, "allow") && !strings.HasPrefix(inner, "deny") &&
			!strings.HasPrefix(inner, "expect") && !strings.HasPrefix(inner, "ext(move_clippy") {
			// An ordinary attribute such as #[test] is left for internal/syntax.
			continue
		}
		span := source.Span{File: file, Start: uint32(start), End: uint32(end + 1)}
		ranges = append(ranges, [2]int{start, end + 1})

		m := bodyRe.FindStringSubmatch(inner)
		if m == nil {
			result.Invalid = append(result.Invalid, Invalid{Span: span, Text: string(full)})
			continue
		}

		kind := parseKind(m[2])
		targets := splitTargets(m[3])
		if len(targets) == 0 {
			result.Invalid = append(result.Invalid, Invalid{Span: span, Text: string(full)})
			continue
		}
		for _, target := range targets {
			result.Directives = append(result.Directives, Directive{
				Kind:           kind,
				Target:         target,
				Scope:          scope,
				AttachmentSpan: span,
			})
		}
	}

	result.Masked = Mask(src, ranges)
	return result
}

func parseKind(verb string) Kind {
	switch verb {
	case "deny":
		return KindDeny
	case "expect":
		return KindExpect
	default:
		return KindAllow
	}
}

// splitTargets splits a comma-separated target list, stripping the optional
// "lint::" qualifier from each entry, and rejects the whole list if any
// entry is not a bare identifier.
func splitTargets(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "lint::")
		if !targetRe.MatchString(p) {
			return nil
		}
		out = append(out, p)
	}
	return out
}

// matchingBracket returns the index of the `]` that closes the `[` at
// openBracket, counting nested `[`/`]` pairs; parentheses do not affect
// the depth. A newline before the closing bracket means no match.
func matchingBracket(src []byte, openBracket int) (int, bool) {
	depth := 1
	for i := openBracket + 1; i < len(src); i++ {
		switch src[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		case '\n':
			// Directives never span lines in either surface syntax.
			return 0, false
		}
	}
	return 0, false
}
