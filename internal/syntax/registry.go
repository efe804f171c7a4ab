package syntax

import (
	"sync"

	"movelint/internal/lint"
	"movelint/internal/lintctx"
)

// Rule is a syntactic lint: a self-contained check over the concrete
// tree, reporting through ctx so suppression is honored uniformly
// (spec.md §4.4's "rules must not report directly" contract).
type Rule interface {
	Check(root *Node, src []byte, ctx *lintctx.Context)
}

type ruleEntry struct {
	descriptor lint.Descriptor
	rule       Rule
}

// Registry collects every syntactic rule registered at package init,
// mirroring the mutex-guarded slice+lookup shape internal/registry uses
// for the unified registry — C4 is one of that registry's four
// descriptor providers (spec.md §3's "Unified Registry... Source
// descriptors come from four providers").
type Registry struct {
	mu      sync.Mutex
	entries []ruleEntry
}

var defaultRegistry = &Registry{}

// Register adds a rule and its descriptor to the default registry. Rule
// implementations call this from an init() func, the way the teacher's
// cmd/surge wires cobra subcommands at startup (spec.md §4.4).
func Register(desc lint.Descriptor, rule Rule) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.entries = append(defaultRegistry.entries, ruleEntry{descriptor: desc, rule: rule})
}

// Descriptors returns every registered rule's descriptor, for the driver
// to hand to internal/registry at startup.
func Descriptors() []lint.Descriptor {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	out := make([]lint.Descriptor, len(defaultRegistry.entries))
	for i, e := range defaultRegistry.entries {
		out[i] = e.descriptor
	}
	return out
}

// Run executes every registered rule over tree, reporting through ctx.
// Rules run in registration order; order doesn't affect the final
// (sorted, deduplicated) diagnostic list (spec.md §4.2).
func Run(tree *Tree, src []byte, ctx *lintctx.Context) {
	defaultRegistry.mu.Lock()
	entries := append([]ruleEntry(nil), defaultRegistry.entries...)
	defaultRegistry.mu.Unlock()

	for _, e := range entries {
		e.rule.Check(tree.Root, src, ctx)
	}
}
