package typelint

import (
	"testing"

	"movelint/internal/compiler"
	"movelint/internal/diag"
	"movelint/internal/lintctx"
	"movelint/internal/registry"
	"movelint/internal/source"
	"movelint/internal/suppress"
)

func runChecks(t *testing.T, prog *compiler.Program) *diag.Bag {
	t.Helper()
	reg := registry.New()
	for _, d := range Descriptors() {
		if err := reg.Add(d); err != nil {
			t.Fatalf("registering %s: %v", d.Name, err)
		}
	}

	fileSpan := source.Span{File: 1, Start: 0, End: 1000}
	scopeTree := suppress.Build(fileSpan, nil, nil)
	resolver := suppress.NewResolver(scopeTree)
	bag := diag.NewBag(100)
	ctx := lintctx.New(reg, resolver, bag, 1)

	Run(prog, ctx)
	return bag
}

func hasLint(bag *diag.Bag, name string) bool {
	for _, d := range bag.Items() {
		if d.LintName == name {
			return true
		}
	}
	return false
}

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestHotPotatoCheck_FlagsDroppableHotPotato(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "flash",
		Structs: []compiler.StructInfo{{
			Module:    "flash",
			Name:      "Receipt",
			Abilities: compiler.AbilitySet{compiler.AbilityDrop},
			Span:      span(0, 10),
		}},
	}}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "droppable_hot_potato_v2") {
		t.Error("expected droppable_hot_potato_v2")
	}
}

func TestHotPotatoCheck_IgnoresGenuineHotPotato(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "flash",
		Structs: []compiler.StructInfo{{
			Module: "flash",
			Name:   "Receipt",
			Span:   span(0, 10),
		}},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "droppable_hot_potato_v2") {
		t.Error("did not expect droppable_hot_potato_v2 for an abilityless struct")
	}
}

func TestCapabilityShareCheck_FlagsSharedCap(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "admin",
		Structs: []compiler.StructInfo{{
			Name:      "AdminCap",
			Abilities: compiler.AbilitySet{compiler.AbilityKey},
		}},
		Functions: []compiler.FunctionInfo{{
			Name: "init",
			Calls: []compiler.CallSite{{
				Span:     span(0, 10),
				Target:   compiler.ResolvedTarget{Module: "transfer", Function: "share_object"},
				TypeArgs: []compiler.TypeArg{{TypeName: "AdminCap"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "capability_share_weakens_access") {
		t.Error("expected capability_share_weakens_access")
	}
}

func TestCapabilityShareCheck_IgnoresTransferToSender(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "admin",
		Structs: []compiler.StructInfo{{
			Name:      "AdminCap",
			Abilities: compiler.AbilitySet{compiler.AbilityKey},
		}},
		Functions: []compiler.FunctionInfo{{
			Name: "init",
			Calls: []compiler.CallSite{{
				Span:     span(0, 10),
				Target:   compiler.ResolvedTarget{Module: "transfer", Function: "transfer"},
				TypeArgs: []compiler.TypeArg{{TypeName: "AdminCap"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "capability_share_weakens_access") {
		t.Error("did not expect capability_share_weakens_access for transfer::transfer")
	}
}

func TestUnconsumedResourceCheck_FlagsDiscardedNonDrop(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "coin",
		Functions: []compiler.FunctionInfo{{
			Name: "f",
			Calls: []compiler.CallSite{{
				Span:        span(0, 10),
				Target:      compiler.ResolvedTarget{Module: "coin", Function: "split"},
				ResultUsage: compiler.ResultDiscarded,
				TypeArgs:    []compiler.TypeArg{{TypeName: "Coin"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "unconsumed_resource_value") {
		t.Error("expected unconsumed_resource_value")
	}
}

func TestUnconsumedResourceCheck_IgnoresBoundResult(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "coin",
		Functions: []compiler.FunctionInfo{{
			Name: "f",
			Calls: []compiler.CallSite{{
				Span:        span(0, 10),
				Target:      compiler.ResolvedTarget{Module: "coin", Function: "split"},
				ResultUsage: compiler.ResultBound,
				TypeArgs:    []compiler.TypeArg{{TypeName: "Coin"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "unconsumed_resource_value") {
		t.Error("did not expect unconsumed_resource_value for a bound result")
	}
}

func TestEventShapeCheck_FlagsKeyAbility(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "market",
		Structs: []compiler.StructInfo{{
			Name:      "SaleEvent",
			Abilities: compiler.AbilitySet{compiler.AbilityCopy, compiler.AbilityDrop, compiler.AbilityKey},
		}},
		Functions: []compiler.FunctionInfo{{
			Name: "sell",
			Calls: []compiler.CallSite{{
				Span:     span(0, 10),
				Target:   compiler.ResolvedTarget{Module: "event", Function: "emit"},
				TypeArgs: []compiler.TypeArg{{TypeName: "SaleEvent"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "event_shape_mismatch") {
		t.Error("expected event_shape_mismatch for a key-able event type")
	}
}

func TestEventShapeCheck_IgnoresWellShapedEvent(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "market",
		Structs: []compiler.StructInfo{{
			Name:      "SaleEvent",
			Abilities: compiler.AbilitySet{compiler.AbilityCopy, compiler.AbilityDrop},
		}},
		Functions: []compiler.FunctionInfo{{
			Name: "sell",
			Calls: []compiler.CallSite{{
				Span:     span(0, 10),
				Target:   compiler.ResolvedTarget{Module: "event", Function: "emit"},
				TypeArgs: []compiler.TypeArg{{TypeName: "SaleEvent"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "event_shape_mismatch") {
		t.Error("did not expect event_shape_mismatch for a well-shaped event")
	}
}

func TestOTWShapeCheck_FlagsFieldsAndWrongAbilities(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "coin",
		Structs: []compiler.StructInfo{{
			Name:      "COIN",
			Abilities: compiler.AbilitySet{compiler.AbilityDrop, compiler.AbilityStore},
			Fields:    []compiler.FieldInfo{{Name: "extra", TypeName: "u64"}},
			Span:      span(0, 10),
		}},
		Functions: []compiler.FunctionInfo{{Name: "init", Span: span(20, 30)}},
	}}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "otw_shape_invalid") {
		t.Error("expected otw_shape_invalid")
	}
}

func TestOTWShapeCheck_IgnoresWellShapedWitness(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "coin",
		Structs: []compiler.StructInfo{{
			Name:      "COIN",
			Abilities: compiler.AbilitySet{compiler.AbilityDrop},
			Span:      span(0, 10),
		}},
		Functions: []compiler.FunctionInfo{{Name: "init", Span: span(20, 30)}},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "otw_shape_invalid") {
		t.Error("did not expect otw_shape_invalid for a well-shaped witness")
	}
}
