package typelint

import (
	"strings"

	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "otw_shape_invalid",
		Category:    lint.CategorySuspicious,
		Description: "a one-time witness struct must have only drop, no fields, and an uppercased name matching the module",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBased,
		Gap:         lint.GapAPIMisuse,
	}, otwShapeCheck{})
}

// otwShapeCheck flags the one-time witness of a module that declares an
// init function when the compiler resolved it as something other than
// drop-only and fieldless. The witness is the struct findWitnessParam
// picks by name (the module's name in SCREAMING_CASE), so the naming
// check below never fires and a witness under any other name is not
// checked.
type otwShapeCheck struct{}

func (otwShapeCheck) Run(prog *compiler.Program, ctx *lintctx.Context) {
	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			if fn.Name != "init" {
				continue
			}
			witness, ok := findWitnessParam(mod)
			if !ok {
				continue
			}
			if !witness.Abilities.Only(compiler.AbilityDrop) {
				ctx.Report("otw_shape_invalid", witness.Span,
					"one-time witness "+witness.Name+" must have drop and no other ability")
			}
			if len(witness.Fields) != 0 {
				ctx.Report("otw_shape_invalid", witness.Span,
					"one-time witness "+witness.Name+" must have no fields")
			}
			if witness.Name != strings.ToUpper(mod.Name) {
				ctx.Report("otw_shape_invalid", witness.Span,
					"one-time witness "+witness.Name+" should be named "+strings.ToUpper(mod.Name)+" to match its module")
			}
		}
	}
}

// findWitnessParam locates the struct declared in mod whose name is the
// module's name in SCREAMING_CASE, if any. init's compiler.FunctionInfo
// doesn't carry a Params list in this minimal surface, so init's first
// parameter type is not consulted.
func findWitnessParam(mod compiler.ModuleInfo) (compiler.StructInfo, bool) {
	want := strings.ToUpper(mod.Name)
	for _, s := range mod.Structs {
		if s.Name == want {
			return s, true
		}
	}
	return compiler.StructInfo{}, false
}
