package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"movelint/internal/diag"
	"movelint/internal/directive"
	"movelint/internal/lintctx"
	"movelint/internal/registry"
	"movelint/internal/source"
	"movelint/internal/suppress"
	"movelint/internal/syntax"
	"movelint/internal/trace"
)

// SourceResult is fast mode's output: everything LintSource built along
// the way, in case a caller (the CLI's single-file `check` path) wants to
// resolve diagnostic spans back to line/column without redoing the work.
type SourceResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Bag     *diag.Bag
}

// LintSource runs fast mode (spec.md §2's "one file, syntax only, no
// compiler") over src: directive extraction, the Suppression Scope Tree,
// and every internal/syntax check, gated by settings. It needs no
// internal/compiler binding, so it's the mode the CLI's editor-integration
// and pre-commit paths use.
func LintSource(path string, src []byte) (*SourceResult, error) {
	return LintSourceWithSettings(context.Background(), path, src, registry.Settings{})
}

// LintSourceWithSettings is LintSource with explicit tier/override
// settings, normally loaded from internal/config.Manifest. ctx carries an
// optional trace.Tracer the same way LintPackage's does; a bare
// context.Background() degrades to trace.Nop at zero cost.
func LintSourceWithSettings(ctx context.Context, path string, src []byte, settings registry.Settings) (*SourceResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "lint_source", 0)
	defer span.End(path)

	fs := source.NewFileSet()
	fileID := fs.AddVirtual(path, src)

	parsed := directive.Parse(fileID, src)
	dirs := directive.NewRegistry()
	dirs.AddParsed(parsed)

	tree := syntax.Parse(fileID, parsed.Masked)

	srcLen, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return nil, fmt.Errorf("driver: %s is too large to lint: %w", path, err)
	}
	fileSpan := source.Span{File: fileID, Start: 0, End: srcLen}
	scopeTree := suppress.Build(fileSpan, tree.ItemSpans(), dirs.All())
	resolver := suppress.NewResolver(scopeTree)

	reg := registry.New()
	for _, d := range syntax.Descriptors() {
		if err := reg.Add(d); err != nil {
			return nil, fmt.Errorf("driver: registering syntax lints: %w", err)
		}
	}

	bag := diag.NewBag(defaultMaxDiagnostics)
	lctx := lintctx.New(reg, resolver, bag, fileID)
	lctx.Restrict(enabledSet(reg.Enabled(settings)))

	syntax.Run(tree, parsed.Masked, lctx)

	for _, inv := range dirs.Invalid() {
		bag.Add(&diag.Diagnostic{
			Severity: diag.SevNote,
			LintName: "invalid_directive",
			Message:  fmt.Sprintf("malformed lint directive: %s", inv.Text),
			Primary:  inv.Span,
		})
	}
	for _, exp := range resolver.Unfulfilled() {
		bag.Add(&diag.Diagnostic{
			Severity: diag.SevError,
			LintName: "unfulfilled_expectation",
			Message:  fmt.Sprintf("expected lint %q to fire in this scope, but it never did", exp.Target),
			Primary:  exp.AttachmentSpan,
		})
	}

	bag.Sort()
	bag.Dedup()

	return &SourceResult{FileSet: fs, FileID: fileID, Bag: bag}, nil
}
