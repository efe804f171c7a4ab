package typelint

import (
	"strings"

	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "capability_share_weakens_access",
		Category:    lint.CategorySecurity,
		Description: "a capability object passed to a sharing transfer becomes readable and callable by anyone",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisTypeBased,
		Gap:         lint.GapCapabilityEscape,
	}, capabilityShareCheck{})
}

// capabilityShareCheck flags calls that hand a *Cap-shaped struct to
// transfer::share_object or transfer::public_share_object. Move's access
// control convention is that a capability's sole owner is whoever holds
// the value; sharing it turns "whoever holds it" into "anyone who asks."
type capabilityShareCheck struct{}

func (capabilityShareCheck) Run(prog *compiler.Program, ctx *lintctx.Context) {
	for _, mod := range prog.Modules {
		capStructs := map[string]bool{}
		for _, s := range mod.Structs {
			if looksLikeCapability(s) {
				capStructs[s.Name] = true
			}
		}
		if len(capStructs) == 0 {
			continue
		}
		for _, fn := range mod.Functions {
			for _, call := range fn.Calls {
				if !isShareCall(call.Target) {
					continue
				}
				for _, ta := range call.TypeArgs {
					if capStructs[ta.TypeName] {
						ctx.Report(
							"capability_share_weakens_access",
							call.Span,
							"sharing capability type "+ta.TypeName+" makes it usable by any address, not just its original owner",
						)
					}
				}
			}
		}
	}
}

func looksLikeCapability(s compiler.StructInfo) bool {
	return strings.HasSuffix(s.Name, "Cap") && s.Abilities.Has(compiler.AbilityKey)
}

func isShareCall(t compiler.ResolvedTarget) bool {
	return t.Module == "transfer" && (t.Function == "share_object" || t.Function == "public_share_object")
}
