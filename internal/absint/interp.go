package absint

import "movelint/internal/lintctx"

// Transfer is one CFG-based lint's abstract-interpretation contract,
// spec.md §4.9's Transfer function family. Each method may decline to
// handle an instruction/condition by returning ok=false (or, for
// LvalueCustom/CommandCustom, a false/nil result), in which case the
// engine falls back to a conservative default (Bottom for expressions,
// no narrowing for conditions).
type Transfer interface {
	// Bottom is this check's lattice's least element, used to seed a
	// local the first time it's written and as the default for any
	// instruction no *Custom method claims.
	Bottom() Value

	// LvalueCustom is consulted before ExprCustom/CallCustom for any
	// instruction with a destination; returning true means the check
	// already wrote state[instr.Dest] itself (or deliberately left it
	// unset) and the engine should not apply a default.
	LvalueCustom(state State, instr Instr) bool

	// ExprCustom handles InstrAssignConst/InstrBinOp. Returning ok=false
	// defers to Bottom.
	ExprCustom(state State, instr Instr) (Value, bool)

	// CallCustom handles InstrCall. Returning ok=false defers to Bottom.
	CallCustom(state State, instr Instr) (Value, bool)

	// CommandCustom inspects a TermIf's condition against the state on
	// entry to the branch and returns the facts that hold only on the
	// "then" edge (e.g. a guard's target local becoming Validated). A
	// nil result narrows nothing.
	CommandCustom(state State, cond Operand) State

	// Finish walks f once more with the fixed point's entry states and
	// reports any domination obligation the check didn't discharge.
	Finish(f Func, entry map[BlockID]State, ctx *lintctx.Context)
}

// RunTransfer computes the forward fixed point of tr's lattice over f's
// CFG: a textbook worklist iteration that applies each block's
// instructions through tr, then narrows the "then" successor via
// tr.CommandCustom before joining into both successors' entry states.
// Each registered check gets its own fixed point over its own lattice —
// unlike a single shared Result reused across every check, a check's
// Finish only ever sees facts it itself produced.
func RunTransfer(f Func, tr Transfer) map[BlockID]State {
	entry := map[BlockID]State{}
	for _, b := range f.Blocks {
		entry[b.ID] = State{}
	}

	worklist := []BlockID{f.Entry}
	onList := map[BlockID]bool{f.Entry: true}
	reached := map[BlockID]bool{f.Entry: true}

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		onList[id] = false

		blk := f.block(id)
		if blk == nil {
			continue
		}
		out := entry[id].Clone()
		for _, instr := range blk.Instrs {
			applyInstr(tr, out, instr)
		}

		for succ, patch := range successorStates(tr, out, blk.Term) {
			succState, ok := entry[succ]
			if !ok {
				continue
			}
			changed := false
			if !reached[succ] {
				// First arrival: the entry state is exactly what this
				// predecessor hands over; later arrivals join into it.
				reached[succ] = true
				entry[succ] = patch.Clone()
				changed = true
			} else {
				changed = succState.JoinInto(patch, tr.Bottom())
			}
			if changed && !onList[succ] {
				worklist = append(worklist, succ)
				onList[succ] = true
			}
		}
	}

	return entry
}

// applyInstr updates state in place for one instruction, preferring
// LvalueCustom, then the kind-appropriate *Custom method, and finally
// tr.Bottom() if nothing claims the destination.
func applyInstr(tr Transfer, state State, instr Instr) {
	if instr.Dest == "" {
		return
	}
	if tr.LvalueCustom(state, instr) {
		return
	}

	var (
		v  Value
		ok bool
	)
	switch instr.Kind {
	case InstrAssignConst, InstrBinOp:
		v, ok = tr.ExprCustom(state, instr)
	case InstrCall:
		v, ok = tr.CallCustom(state, instr)
	}
	if !ok {
		v = tr.Bottom()
	}
	state[instr.Dest] = v
}

// successorStates computes the abstract store handed to each of term's
// successors: TermGoto propagates out unchanged; TermIf narrows the
// "then" edge with any facts tr.CommandCustom derives from the
// condition (the guard-failure/"else" edge gets out unnarrowed, since a
// false condition proves nothing new about the guarded local); a dead
// end (TermReturn, or any block with no successors — including an
// aborting guard-failure block) contributes nothing to any successor,
// so a fact proven only along the surviving edge is never weakened by
// joining with a path that never returns.
func successorStates(tr Transfer, out State, term Terminator) map[BlockID]State {
	switch term.Kind {
	case TermGoto:
		return map[BlockID]State{term.Goto: out}
	case TermIf:
		thenState := out.Clone()
		if patch := tr.CommandCustom(out, term.If.Cond); patch != nil {
			for k, v := range patch {
				thenState[k] = v
			}
		}
		return map[BlockID]State{term.If.Then: thenState, term.If.Else: out}
	default:
		return nil
	}
}
