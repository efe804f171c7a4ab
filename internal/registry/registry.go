// Package registry merges lint descriptors from all four analysis
// providers (internal/syntax, internal/typelint, internal/absint,
// internal/callgraph) into the single, read-only-after-startup Unified
// Registry spec.md §3/§4.7 describes, and drives tier/override-based
// filtering before the driver runs any phase.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"movelint/internal/lint"
)

// Registry is a mutex-guarded descriptor store, keyed by name with
// secondary indices by tier, analysis, and category — grounded on the
// teacher's internal/directive.Registry shape (sync.Mutex-guarded slice
// plus index maps), generalized from one index (namespace) to three.
type Registry struct {
	mu         sync.Mutex
	byName     map[string]*lint.Descriptor
	order      []string // insertion order, for stable CLI inventory output
	byTier     map[lint.Tier][]string
	byAnalysis map[lint.Analysis][]string
	byCategory map[lint.Category][]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName:     make(map[string]*lint.Descriptor),
		byTier:     make(map[lint.Tier][]string),
		byAnalysis: make(map[lint.Analysis][]string),
		byCategory: make(map[lint.Category][]string),
	}
}

// Add registers a descriptor, validating it first. Duplicate names are
// rejected with an error rather than panicking (teacher convention:
// fmt.Errorf, not a fatal).
func (r *Registry) Add(d lint.Descriptor) error {
	if err := lint.Validate(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("registry: duplicate lint name %q", d.Name)
	}

	stored := d
	r.byName[d.Name] = &stored
	r.order = append(r.order, d.Name)
	r.byTier[d.Tier] = append(r.byTier[d.Tier], d.Name)
	r.byAnalysis[d.Analysis] = append(r.byAnalysis[d.Analysis], d.Name)
	r.byCategory[d.Category] = append(r.byCategory[d.Category], d.Name)
	return nil
}

// Describe looks up one descriptor by name.
func (r *Registry) Describe(name string) (*lint.Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byName[name]
	return d, ok
}

// All returns every descriptor, in registration order.
func (r *Registry) All() []*lint.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*lint.Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// FilterByTier returns every descriptor at the given tier.
func (r *Registry) FilterByTier(tier lint.Tier) []*lint.Descriptor {
	return r.filterByIndex(r.byTier[tier])
}

// FilterByAnalysis returns every descriptor belonging to the given phase.
func (r *Registry) FilterByAnalysis(analysis lint.Analysis) []*lint.Descriptor {
	return r.filterByIndex(r.byAnalysis[analysis])
}

// FilterByCategory returns every descriptor in the given category.
func (r *Registry) FilterByCategory(category lint.Category) []*lint.Descriptor {
	return r.filterByIndex(r.byCategory[category])
}

func (r *Registry) filterByIndex(names []string) []*lint.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*lint.Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the total number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Settings controls which tiers and lints are active for a run, applied
// by Enabled per spec.md §4.7's filtering rules.
type Settings struct {
	Preview      bool
	Experimental bool
	// Disabled lists lint names forced off regardless of tier.
	Disabled []string
	// Enabled lists lint names forced on regardless of tier (still subject
	// to explicit Disabled, which always wins).
	Enabled []string
	// DisabledCategories lists categories forced off entirely.
	DisabledCategories []lint.Category
}

// Enabled applies spec.md §4.7's tier-gating and override rules and
// returns the filtered descriptor set the driver should run phases for.
//
//   - stable is always enabled.
//   - preview requires Settings.Preview (or Experimental, which implies it).
//   - experimental requires Settings.Experimental.
//   - deprecated requires Settings.Experimental and is opt-in only.
//   - Global overrides (Disabled/Enabled/DisabledCategories) apply last.
func (r *Registry) Enabled(settings Settings) []*lint.Descriptor {
	disabled := toSet(settings.Disabled)
	enabled := toSet(settings.Enabled)
	disabledCategory := make(map[lint.Category]bool, len(settings.DisabledCategories))
	for _, c := range settings.DisabledCategories {
		disabledCategory[c] = true
	}

	preview := settings.Preview || settings.Experimental

	var out []*lint.Descriptor
	for _, d := range r.All() {
		tierOn := false
		switch d.Tier {
		case lint.TierStable:
			tierOn = true
		case lint.TierPreview:
			tierOn = preview
		case lint.TierExperimental:
			tierOn = settings.Experimental
		case lint.TierDeprecated:
			tierOn = settings.Experimental
		}

		if enabled[d.Name] {
			tierOn = true
		}
		if disabled[d.Name] || disabledCategory[d.Category] {
			tierOn = false
		}

		if tierOn {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
