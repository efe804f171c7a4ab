// Package callgraph is C10, spec.md §4.10's cross-module phase: it turns
// a compiled Program's per-function call sites into a function-level
// call graph and runs BFS reachability over it, adapting the teacher's
// internal/project/dag module-dependency-graph idiom (adjacency lists
// indexed by a sorted, sequentially-assigned ID) down from module-level
// edges to function-call-site edges.
package callgraph

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
	"movelint/internal/compiler"
)

// NodeID is a unique identifier for one function in the graph, assigned
// the same way internal/project/dag.BuildIndex assigns ModuleIDs: sort
// every node name, then number them sequentially.
type NodeID uint32

// Index maps "module::function" names to their NodeIDs and back.
type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

func qualifiedName(module, fn string) string {
	return module + "::" + fn
}

// BuildIndex collects every function name in prog, sorts them, and
// assigns IDs sequentially.
func BuildIndex(prog *compiler.Program) Index {
	uniq := make(map[string]struct{})
	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			uniq[qualifiedName(mod.Name, fn.Name)] = struct{}{}
			for _, call := range fn.Calls {
				uniq[qualifiedName(call.Target.Module, call.Target.Function)] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for n := range uniq {
		names = append(names, n)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		id, err := safecast.Conv[NodeID](i)
		if err != nil {
			panic(fmt.Errorf("callgraph: node id overflow: %w", err))
		}
		nameToID[name] = id
	}

	return Index{NameToID: nameToID, IDToName: names}
}

// RoleKind is one of spec.md §3's call-graph node role tags.
type RoleKind uint8

const (
	RoleCapabilityHandler RoleKind = iota
	RoleResourceCreator
	RoleResourceConsumer
	RolePrivilegedSink
)

// ResourceKind qualifies RoleResourceCreator/RoleResourceConsumer, per
// spec.md §3's `kind ∈ {flash_loan, capability, asset, generic}`.
type ResourceKind uint8

const (
	ResourceGeneric ResourceKind = iota
	ResourceFlashLoan
	ResourceCapability
	ResourceAsset
)

// RoleTag is one annotation a node in the graph carries. Resource is
// only meaningful alongside RoleResourceCreator/RoleResourceConsumer;
// RoleCapabilityHandler and RolePrivilegedSink ignore it.
type RoleTag struct {
	Kind     RoleKind
	Resource ResourceKind
}

// Graph is the function-level call graph, spec.md §3's
// `{ nodes, forward, reverse, annotations }`: Edges[from] ("forward")
// lists every callee reachable in one hop from the function numbered
// from; Reverse[to] lists every caller that reaches to in one hop;
// Annotations[node] is the set of RoleTags a cross-module check can
// consult instead of re-deriving the same shape from Program itself.
type Graph struct {
	Edges       [][]NodeID
	Reverse     [][]NodeID
	Annotations map[NodeID]map[RoleTag]bool
}

// Annotated reports whether node carries tag.
func (g Graph) Annotated(node NodeID, tag RoleTag) bool {
	return g.Annotations[node][tag]
}

// Build constructs the call graph for prog using idx's numbering,
// including reverse edges and the role-tag annotations spec.md §4.10
// derives from struct shape and call-target naming.
func Build(prog *compiler.Program, idx Index) Graph {
	g := Graph{
		Edges:       make([][]NodeID, len(idx.IDToName)),
		Reverse:     make([][]NodeID, len(idx.IDToName)),
		Annotations: make(map[NodeID]map[RoleTag]bool),
	}
	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			from := idx.NameToID[qualifiedName(mod.Name, fn.Name)]
			seen := map[NodeID]bool{}
			for _, call := range fn.Calls {
				to := idx.NameToID[qualifiedName(call.Target.Module, call.Target.Function)]
				if !seen[to] {
					seen[to] = true
					g.Edges[from] = append(g.Edges[from], to)
				}
				g.Reverse[to] = append(g.Reverse[to], from)
			}
			sort.Slice(g.Edges[from], func(i, j int) bool { return g.Edges[from][i] < g.Edges[from][j] })
		}
	}
	for to := range g.Reverse {
		dedupSortNodes(&g.Reverse[to])
	}

	annotate(prog, idx, &g)
	return g
}

func dedupSortNodes(nodes *[]NodeID) {
	seen := map[NodeID]bool{}
	out := (*nodes)[:0]
	for _, n := range *nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	*nodes = out
}

// annotate derives role-tag annotations for every node idx knows about.
//
// capability_handler tags a call's *target* node whenever the call site
// passes a capability-shaped type argument — the callee is the function
// that ends up holding the capability. resource_creator(flash_loan) and
// resource_consumer(flash_loan) tag nodes named "borrow"/"repay"
// respectively, the naming convention flashloan.go's checks already
// relied on before this package exposed it as a shared annotation.
// privileged_sink tags well-known unguarded Sui transfer sinks.
func annotate(prog *compiler.Program, idx Index, g *Graph) {
	tag := func(name string, t RoleTag) {
		id, ok := idx.NameToID[name]
		if !ok {
			return
		}
		if g.Annotations[id] == nil {
			g.Annotations[id] = map[RoleTag]bool{}
		}
		g.Annotations[id][t] = true
	}

	for _, mod := range prog.Modules {
		for _, fn := range mod.Functions {
			for _, call := range fn.Calls {
				// Tag by the call site's own target name, not by
				// whether the callee happens to have a FunctionInfo of
				// its own — a borrowed module is frequently external to
				// the compiled package and only ever appears as a call
				// target, never as a declared function.
				switch call.Target.Function {
				case "borrow":
					tag(qualifiedName(call.Target.Module, call.Target.Function), RoleTag{Kind: RoleResourceCreator, Resource: ResourceFlashLoan})
				case "repay":
					tag(qualifiedName(call.Target.Module, call.Target.Function), RoleTag{Kind: RoleResourceConsumer, Resource: ResourceFlashLoan})
				}
				if isPrivilegedSink(call.Target.Module, call.Target.Function) {
					tag(qualifiedName(call.Target.Module, call.Target.Function), RoleTag{Kind: RolePrivilegedSink})
				}
				for _, ta := range call.TypeArgs {
					if isCapabilityTypeName(prog, ta.TypeName) {
						tag(qualifiedName(call.Target.Module, call.Target.Function), RoleTag{Kind: RoleCapabilityHandler, Resource: ResourceCapability})
					}
				}
			}
		}
	}
}

// isCapabilityTypeName reports whether typeName resolves to a struct
// flagged as a capability — suffix "Cap" carrying the key ability, Sui's
// standard admin-capability pattern.
func isCapabilityTypeName(prog *compiler.Program, typeName string) bool {
	for _, mod := range prog.Modules {
		for _, s := range mod.Structs {
			if s.Name == typeName && isCapability(s) {
				return true
			}
		}
	}
	return false
}

func isCapability(s compiler.StructInfo) bool {
	return strings.HasSuffix(s.Name, "Cap") && s.Abilities.Has(compiler.AbilityKey)
}

// isPrivilegedSink names the well-known Sui transfer entry points that
// permanently hand an object to an address with no further checks.
func isPrivilegedSink(module, fn string) bool {
	if module != "transfer" {
		return false
	}
	switch fn {
	case "transfer", "public_transfer", "share_object", "public_share_object", "freeze_object":
		return true
	default:
		return false
	}
}
