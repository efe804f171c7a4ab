package absint

import (
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "fresh_object_id_comparison",
		Category:    lint.CategorySuspicious,
		Description: "comparing two object IDs produced by object::new in the same function is always false and never meaningful",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBasedCFG,
		Gap:         lint.GapValueFlow,
	}, freshTransfer{})
}

// freshState is the lattice freshTransfer tracks per local: whether it
// was last assigned by object::new/object::id_from_uid along every path
// reaching this point (freshMinted), or whether that's unknown — either
// because it came from somewhere else, or because two incoming branches
// disagree (one minted it fresh, the other didn't).
type freshState uint8

const (
	freshUnknown freshState = iota
	freshMinted
)

func (f freshState) Join(other Value) Value {
	o, ok := other.(freshState)
	if !ok || f != o {
		return freshUnknown
	}
	return f
}

// freshTransfer recognizes Sui's freshly-minted-UID guarantee: two
// locals both produced by object::new/object::id_from_uid can never
// compare equal, so comparing them is always dead code, usually a
// copy-paste mistake comparing the wrong variable. Unlike divZero and
// destroyZero, this lattice needs no guard-dominance narrowing —
// CommandCustom never fires — but still runs through the same shared
// RunTransfer fixed point rather than its own ad hoc block walk, so
// freshness correctly propagates (or doesn't) across any branch in the
// function, not just within one straight-line block.
type freshTransfer struct{}

func (freshTransfer) Bottom() Value { return freshUnknown }

func (freshTransfer) LvalueCustom(State, Instr) bool { return false }

func (freshTransfer) ExprCustom(State, Instr) (Value, bool) { return nil, false }

func (freshTransfer) CallCustom(state State, instr Instr) (Value, bool) {
	if isFreshID(instr.Op) {
		return freshMinted, true
	}
	return nil, false
}

func (freshTransfer) CommandCustom(State, Operand) State { return nil }

func (freshTransfer) Finish(f Func, entry map[BlockID]State, ctx *lintctx.Context) {
	for _, b := range f.Blocks {
		state := entry[b.ID].Clone()
		for _, instr := range b.Instrs {
			if instr.Kind == InstrBinOp && instr.Op == "==" && len(instr.Args) == 2 {
				l, r := instr.Args[0], instr.Args[1]
				if l.Kind == OperandLocal && r.Kind == OperandLocal &&
					freshStateOf(state, l.Local) == freshMinted && freshStateOf(state, r.Local) == freshMinted {
					ctx.Report(
						"fresh_object_id_comparison",
						instr.Span,
						"comparing "+l.Local+" and "+r.Local+", both freshly minted by object::new in "+f.Name+", can never be meaningful",
					)
				}
			}
			applyInstr(freshTransfer{}, state, instr)
		}
	}
}

func freshStateOf(state State, local string) freshState {
	if v, ok := state[local]; ok {
		if fs, ok := v.(freshState); ok {
			return fs
		}
	}
	return freshUnknown
}

func isFreshID(op string) bool {
	return op == "object::new" || op == "object::id_from_uid"
}
