package callgraph

import (
	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

func init() {
	Register(lint.Descriptor{
		Name:        "capability_escapes_owning_module",
		Category:    lint.CategorySecurity,
		Description: "a capability struct is forwarded through a third module that neither declares it nor is its call target",
		Tier:        lint.TierStable,
		Analysis:    lint.AnalysisCrossModule,
		Gap:         lint.GapCapabilityEscape,
	}, capLeakCheck{})
}

// capLeakCheck is the cross-module counterpart to
// internal/typelint's capability_share_weakens_access: that check only
// sees a single module's own calls, so it can't tell a capability's
// owning module handing it directly to transfer::share_object apart from
// some unrelated module merely routing someone else's capability
// through a call chain it doesn't own. This check walks every call site
// in the whole Program and flags a *Cap type argument whose declaring
// module is neither the caller's own module nor the callee's module —
// evidence the capability is passing through hands that have no
// business holding it, reachable only once the full call graph (not one
// function's local calls) is assembled.
type capLeakCheck struct{}

func (capLeakCheck) Run(prog *compiler.Program, idx Index, g Graph, ctx *lintctx.Context) {
	owner := map[string]string{} // struct name -> declaring module
	for _, mod := range prog.Modules {
		for _, s := range mod.Structs {
			if isCapability(s) {
				owner[s.Name] = mod.Name
			}
		}
	}
	if len(owner) == 0 {
		return
	}

	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			for _, call := range fn.Calls {
				for _, ta := range call.TypeArgs {
					declModule, ok := owner[ta.TypeName]
					if !ok {
						continue
					}
					calleeID := idx.NameToID[qualifiedName(call.Target.Module, call.Target.Function)]
					sink := g.Annotated(calleeID, RoleTag{Kind: RolePrivilegedSink})

					// Third-party forwarding: neither the caller nor the
					// callee owns the capability. Also flag a non-owning
					// caller handing the capability straight to a
					// well-known privileged sink (transfer::transfer and
					// friends), since that's the pattern that actually
					// leaks custody even when the sink counts as its own
					// "owning" module.
					if declModule == mod.Name {
						continue
					}
					if declModule == call.Target.Module && !sink {
						continue
					}
					ctx.Report(
						"capability_escapes_owning_module",
						call.Span,
						"capability "+ta.TypeName+", owned by module "+declModule+", is forwarded through "+mod.Name+" to "+call.Target.Module,
					)
				}
			}
		}
	}
}
