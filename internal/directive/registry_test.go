package directive

import (
	"testing"

	"movelint/internal/source"
)

func TestRegistry_AddAndByTarget(t *testing.T) {
	r := NewRegistry()
	r.Add(Directive{Kind: KindAllow, Target: "while_true_to_loop", Scope: ScopeItem})
	r.Add(Directive{Kind: KindDeny, Target: "style", Scope: ScopeModule})
	r.Add(Directive{Kind: KindAllow, Target: "while_true_to_loop", Scope: ScopeItem})

	if r.Len() != 3 {
		t.Fatalf("expected 3 directives, got %d", r.Len())
	}
	matches := r.ByTarget("while_true_to_loop")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches for target, got %d", len(matches))
	}
	if len(r.ByTarget("nonexistent")) != 0 {
		t.Errorf("expected 0 matches for unknown target")
	}
}

func TestRegistry_Expectations(t *testing.T) {
	r := NewRegistry()
	r.Add(Directive{Kind: KindAllow, Target: "a"})
	r.Add(Directive{Kind: KindExpect, Target: "b"})
	r.Add(Directive{Kind: KindExpect, Target: "c"})

	exps := r.Expectations()
	if len(exps) != 2 {
		t.Fatalf("expected 2 expectations, got %d", len(exps))
	}
}

func TestRegistry_AddParsed(t *testing.T) {
	r := NewRegistry()
	src := []byte("#[allow(lint::a)]\n#[bogus(lint::)]\n")
	result := Parse(source.FileID(1), src)
	r.AddParsed(result)

	if r.Len() != len(result.Directives) {
		t.Errorf("registry length %d did not match parsed directive count %d", r.Len(), len(result.Directives))
	}
	if len(r.Invalid()) != len(result.Invalid) {
		t.Errorf("registry invalid count %d did not match parsed invalid count %d", len(r.Invalid()), len(result.Invalid))
	}
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Add(Directive{Kind: KindAllow, Target: "a"})

	all := r.All()
	all[0].Target = "mutated"

	if r.All()[0].Target != "a" {
		t.Errorf("All() should return a defensive copy")
	}
}
