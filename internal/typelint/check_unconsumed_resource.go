package typelint

import (
	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "unconsumed_resource_value",
		Category:    lint.CategorySuspicious,
		Description: "a call result without drop is discarded, so the compiler will reject the function unless it is consumed elsewhere",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBased,
		Gap:         lint.GapValueFlow,
	}, unconsumedResourceCheck{})
}

// unconsumedResourceCheck flags call sites whose result the compiler
// resolved as a discarded value (spec.md §4.8's ResultUsage) of a type
// that lacks drop. Move will already refuse to compile this, but surfacing
// it as a lint gives a clearer message at the call site that produced the
// value, rather than wherever the compiler's borrow checker happens to
// notice the leftover value.
type unconsumedResourceCheck struct{}

func (unconsumedResourceCheck) Run(prog *compiler.Program, ctx *lintctx.Context) {
	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			for _, call := range fn.Calls {
				if call.ResultUsage != compiler.ResultDiscarded {
					continue
				}
				for _, ta := range call.TypeArgs {
					if !ta.Abilities.Has(compiler.AbilityDrop) {
						ctx.Report(
							"unconsumed_resource_value",
							call.Span,
							"result of "+call.Target.Module+"::"+call.Target.Function+" has no drop ability and is discarded here",
						)
					}
				}
			}
		}
	}
}
