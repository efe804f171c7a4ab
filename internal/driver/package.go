package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/google/uuid"

	"movelint/internal/absint"
	"movelint/internal/callgraph"
	"movelint/internal/compiler"
	"movelint/internal/diag"
	"movelint/internal/directive"
	"movelint/internal/lintctx"
	"movelint/internal/registry"
	"movelint/internal/source"
	"movelint/internal/suppress"
	"movelint/internal/trace"
	"movelint/internal/typelint"
)

// PackageResult is full mode's output.
type PackageResult struct {
	Bag *diag.Bag
}

// LintPackage runs full mode (spec.md §2's "whole package, every phase")
// over the Move package rooted at root: it stages a private temp
// directory (mirroring the teacher's internal/driver.NewModuleCache-style
// per-run isolation, but for filesystem staging rather than an in-memory
// cache), invokes comp to get both the typed Program and per-function
// CFGs, then runs internal/typelint, internal/absint, and
// internal/callgraph over them in sequence, gated by settings.
//
// Full mode does not re-run internal/syntax — spec.md §4.4 scopes the
// syntactic phase to single-file fast mode; a caller that also wants
// syntactic lints runs LintSourceWithSettings once per file and merges
// the bags itself. cmd/movelint does not call LintPackage: its `check`
// runs fast mode only.
//
// ctx carries an optional trace.Tracer (trace.FromContext), the same
// ambient-logging convention the teacher's own checker entry points use —
// a ctx with no tracer attached degrades to trace.Nop at zero cost.
func LintPackage(ctx context.Context, root string, comp compiler.Compiler, settings registry.Settings) (*PackageResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "lint_package", 0)
	defer span.End(root)

	stageDir, cleanup, err := stageRun(root)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	compileSpan := trace.Begin(tracer, trace.ScopePass, "compile", span.ID())
	prog, err := comp.Compile(stageDir)
	compileSpan.End("")
	if err != nil {
		return nil, fmt.Errorf("driver: compiling %s: %w", root, err)
	}

	cfgSpan := trace.Begin(tracer, trace.ScopePass, "build_cfgs", span.ID())
	funcs, err := comp.CFGs(stageDir)
	cfgSpan.End("")
	if err != nil {
		return nil, fmt.Errorf("driver: building CFGs for %s: %w", root, err)
	}

	reg := registry.New()
	for _, d := range typelint.Descriptors() {
		if err := reg.Add(d); err != nil {
			return nil, fmt.Errorf("driver: registering type-based lints: %w", err)
		}
	}
	for _, d := range absint.Descriptors() {
		if err := reg.Add(d); err != nil {
			return nil, fmt.Errorf("driver: registering abstract-interpretation lints: %w", err)
		}
	}
	for _, d := range callgraph.Descriptors() {
		if err := reg.Add(d); err != nil {
			return nil, fmt.Errorf("driver: registering cross-module lints: %w", err)
		}
	}
	enabled := enabledSet(reg.Enabled(settings))

	// Full-mode suppression still has to honor per-file allow/deny/expect
	// directives (spec.md §4.5: "applies uniformly" across every phase,
	// not just the syntactic one), but C8/C9/C10 walk the whole compiled
	// Program in one pass, so one diagnostic's file can differ from the
	// next's. fileResolvers builds one Suppression Scope Tree per source
	// file, keyed off the file's own compiler-resolved struct/function
	// spans instead of a re-parsed item tree — full mode already has that
	// structure for free from the compiler, no need to run internal/syntax
	// again to get it.
	scopeTree := suppress.Build(source.Span{}, nil, nil)
	resolver := suppress.NewResolver(scopeTree)
	fileResolvers, invalidDirectives, err := fileResolversFor(prog)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(defaultMaxDiagnostics)
	lctx := lintctx.New(reg, resolver, bag, 0)
	lctx.Restrict(enabled)
	lctx.SetFileResolvers(fileResolvers)

	for _, inv := range invalidDirectives {
		bag.Add(&diag.Diagnostic{
			Severity: diag.SevNote,
			LintName: "invalid_directive",
			Message:  fmt.Sprintf("malformed lint directive: %s", inv.Text),
			Primary:  inv.Span,
		})
	}

	typelintSpan := trace.Begin(tracer, trace.ScopePass, "typelint", span.ID())
	typelint.Run(prog, lctx)
	typelintSpan.End("")

	callgraphSpan := trace.Begin(tracer, trace.ScopePass, "callgraph", span.ID())
	callgraph.RunChecks(prog, lctx)
	callgraphSpan.End("")

	absintSpan := trace.Begin(tracer, trace.ScopePass, "absint", span.ID())
	for _, f := range funcs {
		absint.RunChecks(f, lctx)
	}
	absintSpan.WithExtra("functions", fmt.Sprintf("%d", len(funcs)))
	absintSpan.End("")

	for _, exp := range lctx.Unfulfilled() {
		bag.Add(&diag.Diagnostic{
			Severity: diag.SevError,
			LintName: "unfulfilled_expectation",
			Message:  fmt.Sprintf("expected lint %q to fire in this scope, but it never did", exp.Target),
			Primary:  exp.AttachmentSpan,
		})
	}

	bag.Sort()
	bag.Dedup()

	return &PackageResult{Bag: bag}, nil
}

// fileResolversFor builds one suppress.Resolver per source file the
// compiled Program references, so SetFileResolvers can route each
// diagnostic to the directives actually written in its own file. A
// Program with no FileSet (an implementation that hasn't wired one up
// yet) falls back to the Context's single permissive default resolver.
//
// It also collects every file's malformed-directive findings
// (directive.Parse's parsed.Invalid) so LintPackage can report them the
// same way fast mode's LintSourceWithSettings does — spec.md §4.11's
// pipeline driver applies directive handling uniformly across phases,
// so full mode dropping invalid-directive reporting just because it
// builds its resolvers per-file instead of per-parse would be a gap,
// not a simplification.
func fileResolversFor(prog *compiler.Program) (map[source.FileID]*suppress.Resolver, []directive.Invalid, error) {
	if prog.FileSet == nil {
		return nil, nil, nil
	}

	itemSpans := make(map[source.FileID][]source.Span)
	for _, m := range prog.Modules {
		for _, s := range m.Structs {
			itemSpans[s.Span.File] = append(itemSpans[s.Span.File], s.Span)
		}
		for _, f := range m.Functions {
			itemSpans[f.Span.File] = append(itemSpans[f.Span.File], f.Span)
		}
	}

	resolvers := make(map[source.FileID]*suppress.Resolver, len(itemSpans))
	var invalid []directive.Invalid
	for fileID, spans := range itemSpans {
		file := prog.FileSet.Get(fileID)
		if file == nil {
			continue
		}
		parsed := directive.Parse(fileID, file.Content)
		fileLen, err := safecast.Conv[uint32](len(file.Content))
		if err != nil {
			return nil, nil, fmt.Errorf("driver: %s is too large to lint: %w", file.Path, err)
		}
		fileSpan := source.Span{File: fileID, Start: 0, End: fileLen}
		tree := suppress.Build(fileSpan, spans, parsed.Directives)
		resolvers[fileID] = suppress.NewResolver(tree)
		invalid = append(invalid, parsed.Invalid...)
	}
	return resolvers, invalid, nil
}

// stageRun copies nothing — after checking that root exists, it only
// mints a private, empty scratch directory under os.TempDir() for the
// external compiler binding to use for build artifacts, the same way the
// teacher's commands hand each run its own disposable workspace. The
// directory name is a fresh UUID so concurrent runs (parallel CI jobs on
// a shared build host, or several calls in one process) never collide.
func stageRun(root string) (dir string, cleanup func(), err error) {
	if _, err := os.Stat(root); err != nil {
		return "", nil, fmt.Errorf("driver: package root %q: %w", root, err)
	}

	name := "movelint-" + uuid.NewString()
	dir = filepath.Join(os.TempDir(), name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("driver: staging run directory: %w", err)
	}

	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
