package driver

import (
	"fmt"

	"movelint/internal/absint"
	"movelint/internal/callgraph"
	"movelint/internal/registry"
	"movelint/internal/syntax"
	"movelint/internal/typelint"
)

// FastModeRegistry builds the same syntax-only registry
// LintSourceWithSettings assembles internally — exported so a caller
// (the CLI's JSON report) can list which lints were actually eligible
// to fire during a fast-mode run, instead of the full four-phase
// inventory FullRegistry returns.
func FastModeRegistry() (*registry.Registry, error) {
	reg := registry.New()
	for _, d := range syntax.Descriptors() {
		if err := reg.Add(d); err != nil {
			return nil, fmt.Errorf("driver: registering syntax lints: %w", err)
		}
	}
	return reg, nil
}

// FullRegistry builds a registry populated with every phase's
// descriptors (syntax, typelint, absint, callgraph) — the complete
// inventory an operator wants from `movelint lints`, as opposed to the
// fast-mode-only or full-mode-only subsets LintSource/LintPackage
// register internally for their own run.
func FullRegistry() (*registry.Registry, error) {
	reg := registry.New()

	for _, d := range syntax.Descriptors() {
		if err := reg.Add(d); err != nil {
			return nil, fmt.Errorf("driver: registering syntax lints: %w", err)
		}
	}
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
	return reg, nil
}
