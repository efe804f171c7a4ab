// Package compiler is the minimal external-collaborator interface spec.md
// §6 describes: "the Move parser/typechecker/CFG compiler itself" is
// explicitly out of scope for this engine, consumed as a library. This
// package declares the surface the engine needs from it — ability sets,
// resolved call targets, CFG IR — and nothing else. There is no
// implementation here; a real binding (to the Move compiler's Rust
// toolchain, via cgo or a subprocess protocol) lives outside this
// repository's scope, the same way spec.md §1 excludes "the Move
// parser/typechecker/CFG compiler itself" from the core.
package compiler

import (
	"movelint/internal/absint"
	"movelint/internal/source"
)

// Ability is one of Move's four value abilities.
type Ability uint8

const (
	AbilityCopy Ability = iota
	AbilityDrop
	AbilityStore
	AbilityKey
)

func (a Ability) String() string {
	switch a {
	case AbilityCopy:
		return "copy"
	case AbilityDrop:
		return "drop"
	case AbilityStore:
		return "store"
	case AbilityKey:
		return "key"
	default:
		return "unknown"
	}
}

// AbilitySet is the set of abilities a struct or type argument carries.
type AbilitySet []Ability

// Has reports whether the set carries a.
func (s AbilitySet) Has(a Ability) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// Only reports whether the set is exactly {a} — no more, no fewer.
func (s AbilitySet) Only(a Ability) bool {
	return len(s) == 1 && s[0] == a
}

// FieldInfo is one struct field's name and declared type, as resolved by
// the compiler's typechecker.
type FieldInfo struct {
	Name     string
	TypeName string
}

// StructInfo is one struct declaration's compiler-resolved shape.
type StructInfo struct {
	Module    string
	Name      string
	Abilities AbilitySet
	Fields    []FieldInfo
	Span      source.Span
}

// ResultUsage classifies how a call expression's result is used in its
// enclosing statement (spec.md §4.8's value-flow check).
type ResultUsage uint8

const (
	ResultDiscarded ResultUsage = iota
	ResultBound
	ResultReturned
	ResultPassedToCall
)

// TypeArg is one resolved type argument at a call site, carrying the
// ability set the compiler computed for it.
type TypeArg struct {
	TypeName  string
	Abilities AbilitySet
}

// ResolvedTarget identifies the module and function a call site resolves
// to, per spec.md §6's "resolved call targets (module + function) per
// call site."
type ResolvedTarget struct {
	Module   string
	Function string
}

// CallSite is one function-call expression with its compiler-resolved
// target and type arguments.
type CallSite struct {
	Span        source.Span
	Target      ResolvedTarget
	TypeArgs    []TypeArg
	ResultUsage ResultUsage
}

// FunctionInfo is one function declaration's compiler-resolved shape.
type FunctionInfo struct {
	Module string
	Name   string
	Public bool
	Calls  []CallSite
	Span   source.Span
}

// ModuleInfo is one compiled module: its declared structs and functions.
type ModuleInfo struct {
	Address   string
	Name      string
	Structs   []StructInfo
	Functions []FunctionInfo
}

// Program is a whole compiled package: every module, with types resolved
// and calls bound to their targets — the typed AST + program info spec.md
// §4.8 takes as C8's input. FileSet resolves every Span a Module's
// structs, functions, and call sites carry back to a physical source
// file, the same FileSet the driver uses to load those files for
// directive scanning, so a diagnostic raised against compiler-resolved
// data still lands against the right file's suppression scope.
type Program struct {
	Modules []ModuleInfo
	FileSet *source.FileSet
}

// Compiler parses and typechecks a Move package rooted at path.
// Implementations call out to the real Move compiler; this package only
// describes the contract movelint's phases depend on. Compile feeds
// internal/typelint and internal/callgraph; CFGs feeds internal/absint —
// two narrow methods instead of one return value both phases would have
// to pick apart.
type Compiler interface {
	Compile(path string) (*Program, error)
	CFGs(path string) ([]absint.Func, error)
}
