package syntax

import (
	"strings"

	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "while_true_to_loop",
		Category:    lint.CategoryModernization,
		Description: "prefer loop { ... } over while (true) { ... } for an unconditional loop",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisSyntactic,
	}, whileTrueToLoopRule{})
}

// whileTrueToLoopRule flags `while (true) { ... }` (spec.md Scenario C's
// running example): the condition is exactly the literal `true`, never a
// computed expression that merely evaluates to true, per the node-kind
// contract's exact-match preference over substring matching.
type whileTrueToLoopRule struct{}

func (whileTrueToLoopRule) Check(root *Node, src []byte, ctx *lintctx.Context) {
	for _, n := range root.FindAll(KindWhileExpression) {
		if strings.TrimSpace(n.Text) != "true" {
			continue
		}
		ctx.Report("while_true_to_loop", n.Span, "while (true) never terminates on its own condition; use loop instead")
	}
}
