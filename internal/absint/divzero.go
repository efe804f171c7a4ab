package absint

import (
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "unchecked_division_v2",
		Category:    lint.CategorySecurity,
		Description: "a division or modulo instruction whose divisor is not dominated by a guard proving it non-zero",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBasedCFG,
		Gap:         lint.GapArithmeticSafety,
	}, divZeroTransfer{})
}

// divZeroGuardOps are the comparisons recognized as proving a local
// non-zero on the branch where they hold: `v != 0`, `v > 0`, `0 < v`
// (spec.md §4.9's divisor-check example). recognizeGuardFact normalizes
// either operand order, so ">"/"<" each cover both source orientations.
var divZeroGuardOps = map[string]bool{"!=": true, ">": true, "<": true}

// divZeroTransfer instantiates the {Unknown, Validated} guard lattice
// for "this divisor is proven non-zero." ExprCustom recognizes the
// comparison that produces the guard fact, CommandCustom promotes that
// fact to Validated on the branch it dominates, and Finish reports
// every division whose divisor never reached Validated along the path
// leading to it — which includes a divisor about which nothing at all
// is known, not only one provably zero (spec.md §8 scenario A: an
// unguarded `a / b` must be flagged even though b's value is entirely
// unconstrained).
type divZeroTransfer struct{}

func (divZeroTransfer) Bottom() Value { return GuardUnknown }

func (divZeroTransfer) LvalueCustom(State, Instr) bool { return false }

func (divZeroTransfer) ExprCustom(state State, instr Instr) (Value, bool) {
	if instr.Kind == InstrAssignConst && len(instr.Args) == 1 && instr.Args[0].Kind == OperandConstInt {
		if instr.Args[0].ConstInt != 0 {
			return GuardValidated, true
		}
		return GuardUnknown, true
	}
	if fact, ok := recognizeGuardFact(instr, divZeroGuardOps); ok {
		return fact, true
	}
	return nil, false
}

func (divZeroTransfer) CallCustom(State, Instr) (Value, bool) { return nil, false }

func (divZeroTransfer) CommandCustom(state State, cond Operand) State {
	return guardedByComparison(state, cond)
}

func (divZeroTransfer) Finish(f Func, entry map[BlockID]State, ctx *lintctx.Context) {
	for _, b := range f.Blocks {
		state := entry[b.ID].Clone()
		for _, instr := range b.Instrs {
			if instr.Kind == InstrBinOp && (instr.Op == "/" || instr.Op == "%") && len(instr.Args) == 2 {
				divisor := instr.Args[1]
				if guardStateOf(state, divisor, func(c int64) bool { return c != 0 }) != GuardValidated {
					ctx.Report(
						"unchecked_division_v2",
						instr.Span,
						"divisor is not dominated by a guard proving it non-zero before this "+instr.Op+" in "+f.Name,
					)
				}
			}
			applyInstr(divZeroTransfer{}, state, instr)
		}
	}
}
