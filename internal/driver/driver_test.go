package driver

import (
	"context"
	"testing"

	"movelint/internal/absint"
	"movelint/internal/compiler"
	"movelint/internal/diag"
	"movelint/internal/registry"
	"movelint/internal/source"
)

func hasLint(bag *diag.Bag, name string) bool {
	for _, d := range bag.Items() {
		if d.LintName == name {
			return true
		}
	}
	return false
}

func TestLintSource_FlagsWhileTrueAndRespectsAllow(t *testing.T) {
	src := []byte("fun f() { while (true) { break } }")
	res, err := LintSource("f.move", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasLint(res.Bag, "while_true_to_loop") {
		t.Fatal("expected while_true_to_loop")
	}

	allowed := []byte("#[allow(lint::while_true_to_loop)]\nfun f() { while (true) { break } }")
	res, err = LintSource("f.move", allowed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasLint(res.Bag, "while_true_to_loop") {
		t.Error("expected the allow directive to suppress while_true_to_loop")
	}
}

func TestLintSourceWithSettings_DisabledLintNeverReports(t *testing.T) {
	src := []byte("fun f() { while (true) { break } }")
	res, err := LintSourceWithSettings(context.Background(), "f.move", src, registry.Settings{
		Disabled: []string{"while_true_to_loop"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasLint(res.Bag, "while_true_to_loop") {
		t.Error("expected Settings.Disabled to suppress while_true_to_loop")
	}
}

// fakeCompiler is a hand-built stand-in for a real Move compiler binding,
// exercising LintPackage without depending on one.
type fakeCompiler struct {
	prog  *compiler.Program
	funcs []absint.Func
}

func (f *fakeCompiler) Compile(string) (*compiler.Program, error) { return f.prog, nil }
func (f *fakeCompiler) CFGs(string) ([]absint.Func, error)        { return f.funcs, nil }

func TestLintPackage_RunsCrossModulePhaseAndHonorsFileSuppression(t *testing.T) {
	src := []byte("module admin { struct AdminCap has key {} }")
	fs := source.NewFileSet()
	fileID := fs.Add("admin.move", src, 0)

	prog := &compiler.Program{
		FileSet: fs,
		Modules: []compiler.ModuleInfo{
			{
				Name: "admin",
				Structs: []compiler.StructInfo{{
					Name:      "AdminCap",
					Abilities: compiler.AbilitySet{compiler.AbilityKey},
					Span:      source.Span{File: fileID, Start: 0, End: uint32(len(src))},
				}},
			},
			{
				Name: "middleman",
				Functions: []compiler.FunctionInfo{{
					Name: "relay",
					Span: source.Span{File: fileID, Start: 0, End: uint32(len(src))},
					Calls: []compiler.CallSite{{
						Span:     source.Span{File: fileID, Start: 0, End: uint32(len(src))},
						Target:   compiler.ResolvedTarget{Module: "market", Function: "use_cap"},
						TypeArgs: []compiler.TypeArg{{TypeName: "AdminCap"}},
					}},
				}},
			},
		},
	}

	res, err := LintPackage(context.Background(), ".", &fakeCompiler{prog: prog}, registry.Settings{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasLint(res.Bag, "capability_escapes_owning_module") {
		t.Error("expected capability_escapes_owning_module")
	}
}
