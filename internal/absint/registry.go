package absint

import (
	"sync"

	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

// Check is one CFG-based lint, implemented as a Transfer over its own
// lattice. Each check computes its own fixed point independently — two
// checks never share a Result, since their lattices (and the domination
// obligations they prove) are generally unrelated.
type Check interface {
	Transfer
}

type checkEntry struct {
	descriptor lint.Descriptor
	check      Check
}

// Registry collects every CFG-based check registered at package init,
// the same mutex-guarded shape internal/syntax.Registry and
// internal/typelint.Registry use.
type Registry struct {
	mu      sync.Mutex
	entries []checkEntry
}

var defaultRegistry = &Registry{}

// Register adds a check and its descriptor to the default registry.
func Register(desc lint.Descriptor, check Check) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.entries = append(defaultRegistry.entries, checkEntry{descriptor: desc, check: check})
}

// Descriptors returns every registered check's descriptor.
func Descriptors() []lint.Descriptor {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	out := make([]lint.Descriptor, len(defaultRegistry.entries))
	for i, e := range defaultRegistry.entries {
		out[i] = e.descriptor
	}
	return out
}

// RunChecks runs every registered check against f, each over its own
// fixed point, reporting through ctx.
func RunChecks(f Func, ctx *lintctx.Context) {
	defaultRegistry.mu.Lock()
	entries := append([]checkEntry(nil), defaultRegistry.entries...)
	defaultRegistry.mu.Unlock()

	for _, e := range entries {
		entry := RunTransfer(f, e.check)
		e.check.Finish(f, entry, ctx)
	}
}
