package registry

import (
	"testing"

	"movelint/internal/lint"
)

func descriptor(name string, tier lint.Tier) lint.Descriptor {
	return lint.Descriptor{
		Name:        name,
		Category:    lint.CategoryStyle,
		Description: "a sufficiently long description",
		Tier:        tier,
		Analysis:    lint.AnalysisSyntactic,
	}
}

func TestAdd_RejectsDuplicateName(t *testing.T) {
	r := New()
	if err := r.Add(descriptor("dup_lint", lint.TierStable)); err != nil {
		t.Fatalf("unexpected error on first add: %v", err)
	}
	if err := r.Add(descriptor("dup_lint", lint.TierStable)); err == nil {
		t.Fatal("expected error on duplicate name")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 descriptor after rejected duplicate, got %d", r.Len())
	}
}

func TestAdd_RejectsInvalidDescriptor(t *testing.T) {
	r := New()
	if err := r.Add(lint.Descriptor{Name: "bad"}); err == nil {
		t.Fatal("expected validation error to propagate")
	}
}

func TestEnabled_TierGating(t *testing.T) {
	r := New()
	mustAdd(t, r, descriptor("stable_lint", lint.TierStable))
	mustAdd(t, r, descriptor("preview_lint", lint.TierPreview))
	mustAdd(t, r, descriptor("experimental_lint", lint.TierExperimental))
	mustAdd(t, r, descriptor("deprecated_lint", lint.TierDeprecated))

	names := func(settings Settings) map[string]bool {
		set := make(map[string]bool)
		for _, d := range r.Enabled(settings) {
			set[d.Name] = true
		}
		return set
	}

	base := names(Settings{})
	if !base["stable_lint"] || base["preview_lint"] || base["experimental_lint"] || base["deprecated_lint"] {
		t.Fatalf("expected only stable enabled by default, got %v", base)
	}

	withPreview := names(Settings{Preview: true})
	if !withPreview["stable_lint"] || !withPreview["preview_lint"] || withPreview["experimental_lint"] {
		t.Fatalf("expected stable+preview with --preview, got %v", withPreview)
	}

	withExperimental := names(Settings{Experimental: true})
	if !withExperimental["stable_lint"] || !withExperimental["preview_lint"] ||
		!withExperimental["experimental_lint"] || !withExperimental["deprecated_lint"] {
		t.Fatalf("expected everything enabled with --experimental (implies preview), got %v", withExperimental)
	}
}

func TestEnabled_Overrides(t *testing.T) {
	r := New()
	mustAdd(t, r, descriptor("stable_lint", lint.TierStable))
	mustAdd(t, r, descriptor("preview_lint", lint.TierPreview))

	// Disabled wins even over an explicit Enabled override.
	result := r.Enabled(Settings{
		Enabled:  []string{"preview_lint", "stable_lint"},
		Disabled: []string{"stable_lint"},
	})
	if len(result) != 1 || result[0].Name != "preview_lint" {
		t.Fatalf("expected only preview_lint enabled, got %v", result)
	}
}

func TestEnabled_DisabledCategory(t *testing.T) {
	r := New()
	mustAdd(t, r, descriptor("style_lint", lint.TierStable))

	result := r.Enabled(Settings{DisabledCategories: []lint.Category{lint.CategoryStyle}})
	if len(result) != 0 {
		t.Fatalf("expected category-disabled lint to be filtered out, got %v", result)
	}
}

func mustAdd(t *testing.T, r *Registry, d lint.Descriptor) {
	t.Helper()
	if err := r.Add(d); err != nil {
		t.Fatalf("unexpected error adding %q: %v", d.Name, err)
	}
}
