// Package report is §6's supplemented output-shape feature: a
// format-agnostic, JSON-marshalable mirror of a lint run's results,
// structured close enough to SARIF's rule/result/location vocabulary that
// an outer renderer could map it onto real SARIF without this package
// importing a SARIF library itself — serialization of the final wire
// format is explicitly the excluded "thin outer layer" concern (spec.md
// §1), so ToSARIFLike stops at a plain Go struct and json.Marshal, never
// reaching for github.com/owenrumney/go-sarif/v3 (present in the
// wharflab-tally pack entry, named here as the dependency a real renderer
// would adopt, not one this package needs).
package report

import (
	"encoding/json"
	"fmt"

	"movelint/internal/diag"
	"movelint/internal/registry"
	"movelint/internal/source"
)

// Result is one diagnostic, reshaped into SARIF's result vocabulary:
// a rule ID, a severity level, a message, and a single physical location.
// Grounded on internal/diag/golden.go's goldenDiagnostic — same
// span-to-path/line/column resolution, widened from a golden-file string
// line into a struct a JSON encoder can walk.
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   string     `json:"message"`
	Locations []Location `json:"locations"`
}

// Location is one physical source position a Result points at.
type Location struct {
	Path      string `json:"path"`
	StartLine uint32 `json:"startLine"`
	StartCol  uint32 `json:"startColumn"`
}

// Rule mirrors SARIF's reportingDescriptor: the subset of a lint's
// internal/lint.Descriptor an external consumer (an editor plugin, a CI
// annotation renderer) would want without depending on this repository's
// internal/lint package.
type Rule struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Tier     string `json:"tier"`
	HasFix   bool   `json:"hasFix"`
}

// Run is the full report for one lint invocation: every rule that was
// eligible to fire, and every diagnostic it actually produced.
type Run struct {
	Tool    string   `json:"tool"`
	Rules   []Rule   `json:"rules"`
	Results []Result `json:"results"`
}

// Build reshapes a diagnostic bag and the registry it was produced
// against into a Run. Diagnostics whose span cannot be resolved against
// fs (should not happen for a real run; defensive the same way
// internal/diag/golden.go's resolveSpan recovers from a malformed FileID)
// are dropped rather than emitted with a blank location.
func Build(reg *registry.Registry, settings registry.Settings, bag *diag.Bag, fs *source.FileSet) Run {
	run := Run{Tool: "movelint"}

	for _, d := range reg.Enabled(settings) {
		run.Rules = append(run.Rules, Rule{
			ID:       d.Name,
			Category: d.Category.String(),
			Tier:     d.Tier.String(),
			HasFix:   d.Fix.Available,
		})
	}

	for _, d := range bag.Items() {
		loc, ok := resolveLocation(fs, d.Primary)
		if !ok {
			continue
		}
		run.Results = append(run.Results, Result{
			RuleID:    d.LintName,
			Level:     levelFor(d.Severity),
			Message:   d.Message,
			Locations: []Location{loc},
		})
	}

	return run
}

// ToSARIFLike renders run as indented JSON. The field names and nesting
// (tool/rules/results, each result carrying a ruleId/level/message/
// locations) deliberately echo SARIF's shape closely enough that mapping
// this onto a real sarif.Report is a rename, not a redesign — without
// this package taking on SARIF's much larger schema (taxonomies,
// physicalLocation/region nesting, tool driver metadata) that no
// component downstream of the engine needs.
func (r Run) ToSARIFLike() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshaling run: %w", err)
	}
	return out, nil
}

func resolveLocation(fs *source.FileSet, span source.Span) (loc Location, ok bool) {
	defer func() {
		if recover() != nil {
			loc = Location{}
			ok = false
		}
	}()
	if fs == nil {
		return Location{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return Location{
		Path:      file.FormatPath("relative", fs.BaseDir()),
		StartLine: start.Line,
		StartCol:  start.Col,
	}, true
}

func levelFor(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}
