package absint

// Value is the abstract value one CFG-based lint's Transfer tracks per
// local, drawn from that check's own finite lattice (spec.md §4.9: "each
// CFG-based lint supplies a finite value lattice V"). The engine never
// inspects what's inside a Value beyond calling Join on it; every
// concrete Value this package defines is backed by a comparable Go type,
// so plain == is the worklist's change detector.
type Value interface {
	// Join returns the least upper bound of the value and other in this
	// value's own lattice, consulted whenever two incoming CFG edges
	// disagree on a local's abstract value.
	Join(other Value) Value
}

// State is the abstract store at one program point: the pointwise lift
// of V into map<Local, V> (spec.md §4.9's "state lattice"), joined
// pointwise and bottomed on the empty map.
type State map[string]Value

// Clone returns an independent copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// JoinInto merges other into s in place, defaulting either side's
// missing entries to bottom, and returns whether s changed — the signal
// a worklist iteration uses to decide whether a block's successors need
// revisiting.
func (s State) JoinInto(other State, bottom Value) bool {
	changed := false
	for k, v := range other {
		cur, ok := s[k]
		if !ok {
			cur = bottom
		}
		merged := cur.Join(v)
		if merged != cur {
			s[k] = merged
			changed = true
		}
	}
	for k, cur := range s {
		if _, ok := other[k]; ok {
			continue
		}
		merged := cur.Join(bottom)
		if merged != cur {
			s[k] = merged
			changed = true
		}
	}
	return changed
}

// GuardState is the two-point lattice {Unknown, Validated} spec.md §4.9
// names as its divisor-check example. GuardUnknown is bottom: no guard
// or constant has proven this local safe along every path reaching this
// point. GuardValidated means one has. The division and destroy-zero
// checks both instantiate this same lattice; which concrete predicate
// "Validated" stands for (non-zero, or exactly zero) is a property of
// the check, not of the lattice.
type GuardState uint8

const (
	GuardUnknown GuardState = iota
	GuardValidated
)

// Join implements Value: two Validated facts stay Validated, anything
// else collapses to Unknown, since a local is only dominated by a guard
// if every path reaching this point agrees it is.
func (g GuardState) Join(other Value) Value {
	o, ok := other.(GuardState)
	if !ok || g != o {
		return GuardUnknown
	}
	return g
}

// guardFact is the transient value a recognized comparison instruction's
// destination carries: not the comparison's truth value, but which
// local a branch built from it would validate. It only joins with an
// identical fact; two different comparisons merging carries no
// guarantee about either one.
type guardFact struct {
	target string
}

func (g guardFact) Join(other Value) Value {
	if o, ok := other.(guardFact); ok && o == g {
		return g
	}
	return GuardUnknown
}

// recognizeGuardFact reports whether instr is one of ops's recognized
// `local <op> 0` or `0 <op> local` comparisons, returning the guardFact
// naming which local the comparison's condition would validate.
func recognizeGuardFact(instr Instr, ops map[string]bool) (guardFact, bool) {
	if instr.Kind != InstrBinOp || len(instr.Args) != 2 || !ops[instr.Op] {
		return guardFact{}, false
	}
	l, r := instr.Args[0], instr.Args[1]
	switch {
	case l.Kind == OperandLocal && r.Kind == OperandConstInt && r.ConstInt == 0:
		return guardFact{target: l.Local}, true
	case r.Kind == OperandLocal && l.Kind == OperandConstInt && l.ConstInt == 0:
		return guardFact{target: r.Local}, true
	default:
		return guardFact{}, false
	}
}

// guardedByComparison is the CommandCustom helper both guard-dominance
// checks share: if cond's local carries a guardFact, the "then" edge
// validates the fact's target local (the Pending → Validated transition
// spec.md §4.9 describes); any other condition shape narrows nothing.
func guardedByComparison(state State, cond Operand) State {
	if cond.Kind != OperandLocal {
		return nil
	}
	v, ok := state[cond.Local]
	if !ok {
		return nil
	}
	fact, ok := v.(guardFact)
	if !ok {
		return nil
	}
	return State{fact.target: GuardValidated}
}

// guardStateOf reads a guard-dominance check's opinion of op, given
// constIsValidated deciding whether a literal integer counts as
// Validated (c != 0 for the "provably non-zero" division check, c == 0
// for the "provably zero" destroy_zero check). A local falls back to
// GuardUnknown if the fixed point never recorded a GuardState for it,
// whether because no transfer function set one or because it currently
// holds an unrelated value such as a guardFact.
func guardStateOf(state State, op Operand, constIsValidated func(int64) bool) GuardState {
	switch op.Kind {
	case OperandConstInt:
		if constIsValidated(op.ConstInt) {
			return GuardValidated
		}
		return GuardUnknown
	case OperandLocal:
		if v, ok := state[op.Local]; ok {
			if gs, ok := v.(GuardState); ok {
				return gs
			}
		}
		return GuardUnknown
	default:
		return GuardUnknown
	}
}
