// Package driver is spec.md §4.11's pipeline orchestrator (C11): the one
// place that wires the descriptor registry, suppression resolver, and the
// four analysis phases together into the two modes spec.md §2 describes —
// fast mode (one file, syntax only, no external compiler) and full mode
// (a whole package, every phase, driven by a real internal/compiler.Compiler
// binding). Grounded on the teacher's internal/driver package: two
// narrow, ctx-accepting entry points (Parse/Diagnose there; LintSource/
// LintPackage here) instead of one do-everything function, each building
// its own FileSet/Bag/Registry and returning a single result struct.
package driver

import "movelint/internal/lint"

// defaultMaxDiagnostics bounds one run's diagnostic bag, the same default
// the teacher's cmd/surge commands pass to diag.NewBag when the user
// hasn't overridden it with a flag.
const defaultMaxDiagnostics = 1000

// enabledSet turns registry.Registry.Enabled's filtered descriptor slice
// into the name-set lintctx.Context.Restrict expects.
func enabledSet(descs []*lint.Descriptor) map[string]bool {
	out := make(map[string]bool, len(descs))
	for _, d := range descs {
		out[d.Name] = true
	}
	return out
}
