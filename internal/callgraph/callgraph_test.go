package callgraph

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

	RunChecks(prog, ctx)
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

func TestForward_FindsTransitiveSuccessors(t *testing.T) {
	g := Graph{Edges: [][]NodeID{
		0: {1},
		1: {2},
		2: {},
	}}
	got := Forward(g, 0)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestReaches_FalseWhenUnreachable(t *testing.T) {
	g := Graph{Edges: [][]NodeID{
		0: {1},
		1: {},
		2: {},
	}}
	if Reaches(g, 0, 2) {
		t.Error("expected node 2 to be unreachable from node 0")
	}
}

func TestCapLeakCheck_FlagsThirdPartyForwarding(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{
		{
			Name: "admin",
			Structs: []compiler.StructInfo{{
				Name:      "AdminCap",
				Abilities: compiler.AbilitySet{compiler.AbilityKey},
			}},
		},
		{
			Name: "middleman",
			Functions: []compiler.FunctionInfo{{
				Name: "relay",
				Calls: []compiler.CallSite{{
					Span:     span(0, 10),
					Target:   compiler.ResolvedTarget{Module: "market", Function: "use_cap"},
					TypeArgs: []compiler.TypeArg{{TypeName: "AdminCap"}},
				}},
			}},
		},
	}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "capability_escapes_owning_module") {
		t.Error("expected capability_escapes_owning_module")
	}
}

func TestCapLeakCheck_IgnoresDirectUseByOwner(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "admin",
		Structs: []compiler.StructInfo{{
			Name:      "AdminCap",
			Abilities: compiler.AbilitySet{compiler.AbilityKey},
		}},
		Functions: []compiler.FunctionInfo{{
			Name: "use_it",
			Calls: []compiler.CallSite{{
				Span:     span(0, 10),
				Target:   compiler.ResolvedTarget{Module: "transfer", Function: "transfer"},
				TypeArgs: []compiler.TypeArg{{TypeName: "AdminCap"}},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "capability_escapes_owning_module") {
		t.Error("did not expect capability_escapes_owning_module when the owning module calls directly")
	}
}

func TestFlashloanCheck_FlagsMissingRepay(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "trader",
		Functions: []compiler.FunctionInfo{{
			Name: "arbitrage",
			Calls: []compiler.CallSite{{
				Span:   span(0, 10),
				Target: compiler.ResolvedTarget{Module: "flashloan", Function: "borrow"},
			}},
		}},
	}}}
	bag := runChecks(t, prog)
	if !hasLint(bag, "flashloan_without_repay") {
		t.Error("expected flashloan_without_repay")
	}
}

func TestFlashloanCheck_IgnoresRepayReachableThroughHelper(t *testing.T) {
	prog := &compiler.Program{Modules: []compiler.ModuleInfo{{
		Name: "trader",
		Functions: []compiler.FunctionInfo{
			{
				Name: "arbitrage",
				Calls: []compiler.CallSite{
					{Span: span(0, 10), Target: compiler.ResolvedTarget{Module: "flashloan", Function: "borrow"}},
					{Span: span(10, 20), Target: compiler.ResolvedTarget{Module: "trader", Function: "settle"}},
				},
			},
			{
				Name: "settle",
				Calls: []compiler.CallSite{
					{Span: span(30, 40), Target: compiler.ResolvedTarget{Module: "flashloan", Function: "repay"}},
				},
			},
		},
	}}}
	bag := runChecks(t, prog)
	if hasLint(bag, "flashloan_without_repay") {
		t.Error("did not expect flashloan_without_repay when repay is reachable through a helper")
	}
}
