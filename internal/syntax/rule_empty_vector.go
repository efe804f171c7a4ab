package syntax

import (
	"strings"

	"movelint/internal/fix"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "empty_vector_literal",
		Category:    lint.CategoryStyle,
		Description: "prefer vector::empty() over an empty vector[] literal",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisSyntactic,
		Fix: lint.FixMetadata{
			Available:   true,
			Safety:      lint.FixSafetySafe,
			Description: "replace vector[] with vector::empty()",
		},
	}, emptyVectorLiteralRule{})
}

// emptyVectorLiteralRule flags `vector[]` (spec.md Scenario D's running
// example) in favor of the self-documenting `vector::empty()` call.
type emptyVectorLiteralRule struct{}

func (emptyVectorLiteralRule) Check(root *Node, src []byte, ctx *lintctx.Context) {
	for _, n := range root.FindAll(KindVectorLiteral) {
		if strings.TrimSpace(n.Text) != "" {
			continue
		}
		replacement := fix.ReplaceSpan(
			"Replace with vector::empty()",
			n.Span,
			"vector::empty()",
			string(src[n.Span.Start:n.Span.End]),
			fix.WithID("empty_vector_literal.use_empty"),
		)
		ctx.ReportWithFix("empty_vector_literal", n.Span, "empty vector[] literal; use vector::empty() instead", replacement)
	}
}
