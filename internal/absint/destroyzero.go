package absint

import (
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "destroy_zero_on_nonzero",
		Category:    lint.CategorySecurity,
		Description: "coin::destroy_zero called on a balance not dominated by a guard proving it is exactly zero",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBasedCFG,
		Gap:         lint.GapArithmeticSafety,
	}, destroyZeroTransfer{})
}

// destroyZeroGuardOps are the comparisons recognized as proving a local
// exactly zero on the branch where they hold: `v == 0`.
var destroyZeroGuardOps = map[string]bool{"==": true}

// destroyZeroTransfer mirrors divZeroTransfer's guard-dominance
// machinery with the opposite predicate: Validated means "proven
// exactly zero," established either by a literal 0 constant, a call to
// balance::zero()/coin::zero() (Sui's canonical zero-value
// constructors), or a dominating `v == 0` guard. Finish reports every
// destroy_zero call whose argument never reached Validated — Sui's
// destroy_zero aborts at runtime on anything else, so an argument about
// which nothing is known is exactly as unsafe as one provably non-zero.
type destroyZeroTransfer struct{}

func (destroyZeroTransfer) Bottom() Value { return GuardUnknown }

func (destroyZeroTransfer) LvalueCustom(State, Instr) bool { return false }

func (destroyZeroTransfer) ExprCustom(state State, instr Instr) (Value, bool) {
	if instr.Kind == InstrAssignConst && len(instr.Args) == 1 && instr.Args[0].Kind == OperandConstInt {
		if instr.Args[0].ConstInt == 0 {
			return GuardValidated, true
		}
		return GuardUnknown, true
	}
	if fact, ok := recognizeGuardFact(instr, destroyZeroGuardOps); ok {
		return fact, true
	}
	return nil, false
}

func (destroyZeroTransfer) CallCustom(state State, instr Instr) (Value, bool) {
	if isZeroConstructor(instr.Op) {
		return GuardValidated, true
	}
	return nil, false
}

func (destroyZeroTransfer) CommandCustom(state State, cond Operand) State {
	return guardedByComparison(state, cond)
}

func (destroyZeroTransfer) Finish(f Func, entry map[BlockID]State, ctx *lintctx.Context) {
	for _, b := range f.Blocks {
		state := entry[b.ID].Clone()
		for _, instr := range b.Instrs {
			if instr.Kind == InstrCall && isDestroyZero(instr.Op) && len(instr.Args) == 1 {
				arg := instr.Args[0]
				if guardStateOf(state, arg, func(c int64) bool { return c == 0 }) != GuardValidated {
					ctx.Report(
						"destroy_zero_on_nonzero",
						instr.Span,
						instr.Op+" is called on a value not dominated by a guard proving it is exactly zero in "+f.Name,
					)
				}
			}
			applyInstr(destroyZeroTransfer{}, state, instr)
		}
	}
}

func isDestroyZero(op string) bool {
	return op == "coin::destroy_zero" || op == "balance::destroy_zero"
}

func isZeroConstructor(op string) bool {
	return op == "coin::zero" || op == "balance::zero"
}
