package callgraph

import (
	"sync"

	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

// Check is one cross-module lint: given the whole compiled Program plus
// its derived call graph and index, it reports through ctx.
type Check interface {
	Run(prog *compiler.Program, idx Index, g Graph, ctx *lintctx.Context)
}

type checkEntry struct {
	descriptor lint.Descriptor
	check      Check
}

// Registry collects every cross-module check registered at package
// init, the same mutex-guarded shape the other three phase registries
// use.
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

// RunChecks builds prog's call graph and runs every registered check
// against it, reporting through ctx.
func RunChecks(prog *compiler.Program, ctx *lintctx.Context) {
	defaultRegistry.mu.Lock()
	entries := append([]checkEntry(nil), defaultRegistry.entries...)
	defaultRegistry.mu.Unlock()

	idx := BuildIndex(prog)
	g := Build(prog, idx)
	for _, e := range entries {
		e.check.Run(prog, idx, g, ctx)
	}
}
