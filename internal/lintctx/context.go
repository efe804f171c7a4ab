// Package lintctx is the only place a lint rule may construct a
// diag.Diagnostic. Context funnels every report through internal/suppress
// first, so allow/deny/expect directives are honored uniformly no matter
// which phase is reporting.
package lintctx

import (
	"movelint/internal/diag"
	"movelint/internal/directive"
	"movelint/internal/lint"
	"movelint/internal/registry"
	"movelint/internal/source"
	"movelint/internal/suppress"
)

// Context is the rule-facing reporting surface, grounded on the teacher's
// diag.ReportBuilder/BagReporter split: accumulation happens here, with
// the suppression lookup spliced into the single write instead of a
// caller-visible .Emit() step, since lint rules never need to hold a
// half-built diagnostic across calls the way the teacher's builder does.
type Context struct {
	registry *registry.Registry
	resolver *suppress.Resolver
	bag      *diag.Bag
	file     source.FileID
	enabled  map[string]bool
	byFile   map[source.FileID]*suppress.Resolver
}

// New creates a Context bound to one file's diagnostic bag, descriptor
// registry, and suppression resolver.
func New(reg *registry.Registry, resolver *suppress.Resolver, bag *diag.Bag, file source.FileID) *Context {
	return &Context{registry: reg, resolver: resolver, bag: bag, file: file}
}

// Restrict limits subsequent reports to the given lint names — the
// driver calls this once per run with registry.Registry.Enabled's
// result so a phase's checks all execute (they're cheap and
// side-effect-free) but a disabled lint's Report calls are silently
// dropped, the same "filter at the write, not the call site" shape
// Report already uses for suppression. A nil or never-called Restrict
// means everything registered reports.
func (c *Context) Restrict(names map[string]bool) {
	c.enabled = names
}

// SetFileResolvers gives a Context a distinct suppression resolver per
// source file. Full mode's C8/C9/C10 phases walk a whole compiled Program
// in one pass, reporting diagnostics whose spans belong to many different
// physical files, but spec.md §4.5's "directive suppression applies
// uniformly across every phase" still means each diagnostic must resolve
// against the directives written in ITS OWN file, not some other file's.
// A span whose file has no entry falls back to the Context's single
// default resolver.
func (c *Context) SetFileResolvers(byFile map[source.FileID]*suppress.Resolver) {
	c.byFile = byFile
}

// Report emits lintName's diagnostic at span with message, subject to
// suppression. Default severity is warning; a deny directive promotes it
// to error, an allow or fulfilled expect directive drops it entirely.
func (c *Context) Report(lintName string, span source.Span, message string) {
	c.report(lintName, span, message, nil, nil)
}

// ReportWithHelp is Report plus a secondary help note attached at the same
// span.
func (c *Context) ReportWithHelp(lintName string, span source.Span, message, help string) {
	c.report(lintName, span, message, []diag.Note{{Span: span, Msg: help}}, nil)
}

// ReportWithFix is Report plus a suggested automatic fix.
func (c *Context) ReportWithFix(lintName string, span source.Span, message string, fix diag.Fix) {
	c.report(lintName, span, message, nil, []diag.Fix{fix})
}

func (c *Context) report(lintName string, span source.Span, message string, notes []diag.Note, fixes []diag.Fix) {
	if c.enabled != nil && !c.enabled[lintName] {
		return
	}

	var category lint.Category
	if desc, ok := c.registry.Describe(lintName); ok {
		category = desc.Category
	}

	resolver := c.resolver
	if r, ok := c.byFile[span.File]; ok {
		resolver = r
	}
	level := resolver.Resolve(lintName, category, span)
	if level == suppress.LevelOff {
		return
	}

	sev := diag.SevWarning
	if level == suppress.LevelError {
		sev = diag.SevError
	}

	c.bag.Add(&diag.Diagnostic{
		Severity: sev,
		LintName: lintName,
		Message:  message,
		Primary:  span,
		Notes:    notes,
		Fixes:    fixes,
	})
}

// File returns the source file this context reports against.
func (c *Context) File() source.FileID {
	return c.file
}

// Unfulfilled returns every expect directive, across the default resolver
// and every per-file resolver SetFileResolvers registered, that no
// diagnostic ever matched — the driver calls this once after every phase
// has run, per spec.md §4.5's single discharge pass.
func (c *Context) Unfulfilled() []*directive.Directive {
	out := c.resolver.Unfulfilled()
	for _, r := range c.byFile {
		out = append(out, r.Unfulfilled()...)
	}
	return out
}
