// Package typelint is C8, spec.md §4.8's type-based analysis phase: checks
// that need the Move compiler's resolved types and abilities but not a
// full control-flow graph (that's C9, internal/absint). Each check lives
// in its own file, grounded on the teacher's internal/sema package —
// one concern per file, a report helper on a small unexported receiver,
// terse doc comments.
package typelint

import (
	"sync"

	"movelint/internal/compiler"
	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

// Check is one type-based lint: it walks a compiled Program and reports
// through ctx, exactly like internal/syntax's Rule but operating on
// compiler.Program instead of a concrete syntax tree.
type Check interface {
	Run(prog *compiler.Program, ctx *lintctx.Context)
}

type checkEntry struct {
	descriptor lint.Descriptor
	check      Check
}

// Registry collects every type-based check registered at package init,
// the same mutex-guarded shape internal/syntax.Registry uses.
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

// Run executes every registered check over prog, reporting through ctx.
func Run(prog *compiler.Program, ctx *lintctx.Context) {
	defaultRegistry.mu.Lock()
	entries := append([]checkEntry(nil), defaultRegistry.entries...)
	defaultRegistry.mu.Unlock()

	for _, e := range entries {
		e.check.Run(prog, ctx)
	}
}
