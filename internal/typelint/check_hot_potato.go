package typelint

import (
	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "droppable_hot_potato_v2",
		Category:    lint.CategorySuspicious,
		Description: "a hot-potato struct (no abilities) should never gain drop; it defeats the must-consume guarantee",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBased,
		Gap:         lint.GapAbilityMismatch,
	}, hotPotatoCheck{})
}

// hotPotatoCheck flags a struct whose ability set reads as a Move "hot
// potato" (neither key nor store, see looksLikeHotPotato; its name and
// fields are not consulted) but that the compiler resolved with drop —
// at that point nothing forces the caller to consume it at all.
type hotPotatoCheck struct{}

func (hotPotatoCheck) Run(prog *compiler.Program, ctx *lintctx.Context) {
	for _, mod := range prog.Modules {
		for _, s := range mod.Structs {
			if !looksLikeHotPotato(s) {
				continue
			}
			if s.Abilities.Has(compiler.AbilityDrop) {
				ctx.ReportWithHelp(
					"droppable_hot_potato_v2",
					s.Span,
					"struct "+s.Name+" has no key/store but carries drop, so it is not actually a hot potato",
					"remove the drop ability so callers must consume this value explicitly",
				)
			}
		}
	}
}

// looksLikeHotPotato approximates spec.md §4.8's "hot-potato" shape: a
// struct with neither store nor key. Such a struct can only ever live on
// the stack within one transaction, which is the entire point of the
// pattern — unless drop lets it vanish silently instead.
func looksLikeHotPotato(s compiler.StructInfo) bool {
	return !s.Abilities.Has(compiler.AbilityStore) && !s.Abilities.Has(compiler.AbilityKey)
}
