package typelint

import (
	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "event_shape_mismatch",
		Category:    lint.CategorySuspicious,
		Description: "an event struct must carry copy and drop and never key, so indexers can read it without taking ownership",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBased,
		Gap:         lint.GapAPIMisuse,
	}, eventShapeCheck{})
}

// eventShapeCheck flags a struct emitted through event::emit whose
// ability set doesn't match Sui's event convention: copy + drop, and
// never key (an event is a record, not an owned object).
type eventShapeCheck struct{}

func (eventShapeCheck) Run(prog *compiler.Program, ctx *lintctx.Context) {
	for _, mod := range prog.Modules {
		structByName := map[string]compiler.StructInfo{}
		for _, s := range mod.Structs {
			structByName[s.Name] = s
		}
		for _, fn := range mod.Functions {
			for _, call := range fn.Calls {
				if call.Target.Module != "event" || call.Target.Function != "emit" {
					continue
				}
				for _, ta := range call.TypeArgs {
					s, ok := structByName[ta.TypeName]
					if !ok {
						continue
					}
					if s.Abilities.Has(compiler.AbilityKey) {
						ctx.Report("event_shape_mismatch", call.Span,
							"event type "+s.Name+" has key, which makes it an object rather than an event record")
					}
					if !s.Abilities.Has(compiler.AbilityCopy) || !s.Abilities.Has(compiler.AbilityDrop) {
						ctx.Report("event_shape_mismatch", call.Span,
							"event type "+s.Name+" should have both copy and drop")
					}
				}
			}
		}
	}
}
