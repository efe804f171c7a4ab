package callgraph

import (
	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "flashloan_without_repay",
		Category:    lint.CategorySecurity,
		Description: "a function borrows from a flash-loan module but no repay call is reachable anywhere in its call tree",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisCrossModule,
		Gap:         lint.GapTemporalOrdering,
	}, flashloanCheck{})
}

// flashloanCheck flags a function that calls some module's "borrow" entry
// point but whose entire transitive call tree — not just its own direct
// calls — never reaches that module's matching "repay" call. A correct
// flash-loan borrower is free to repay through a helper it calls rather
// than inline, so this check needs the BFS-reachable set from the
// borrowing function, not just its immediate call list.
type flashloanCheck struct{}

func (flashloanCheck) Run(prog *compiler.Program, idx Index, g Graph, ctx *lintctx.Context) {
	creator := RoleTag{Kind: RoleResourceCreator, Resource: ResourceFlashLoan}
	consumer := RoleTag{Kind: RoleResourceConsumer, Resource: ResourceFlashLoan}

	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			for _, call := range fn.Calls {
				calleeID := idx.NameToID[qualifiedName(call.Target.Module, call.Target.Function)]
				if !g.Annotated(calleeID, creator) {
					continue
				}
				loanModule := call.Target.Module
				from := idx.NameToID[qualifiedName(mod.Name, fn.Name)]
				if reachesConsumer(g, idx, from, loanModule, consumer) {
					continue
				}
				ctx.Report(
					"flashloan_without_repay",
					call.Span,
					"borrows from "+loanModule+" but no call to "+loanModule+"::repay is reachable from "+fn.Name,
				)
			}
		}
	}
}

// reachesConsumer reports whether loanModule's repay node — the one
// resource_consumer(flash_loan)-tagged node that actually belongs to
// the module being borrowed from — is from itself or reachable from it.
// A direct repay call counts, same as a repay reached through a helper.
func reachesConsumer(g Graph, idx Index, from NodeID, loanModule string, consumer RoleTag) bool {
	target, ok := idx.NameToID[qualifiedName(loanModule, "repay")]
	if !ok || !g.Annotated(target, consumer) {
		return false
	}
	return Reaches(g, from, target)
}
