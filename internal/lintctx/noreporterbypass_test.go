package lintctx

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// guardedPackages are the phase packages that must never construct a
// diag.Diagnostic directly; every report has to flow through Context so
// suppression is honored uniformly (spec.md §4.6's "no alternative path
// to emit a diagnostic" invariant).
var guardedPackages = []string{"syntax", "typelint", "absint", "callgraph"}

// diagLiteralRe matches a package-qualified diag.Diagnostic{ struct
// literal construction. Grounded on the teacher's own style of writing
// small custom static checks (regex/text scan) rather than reaching for
// go/analysis for a single-purpose repo-local rule.
var diagLiteralRe = regexp.MustCompile(`\bdiag\.Diagnostic\s*{`)

func TestNoReporterBypass(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("could not determine test file location")
	}
	internalDir := filepath.Dir(filepath.Dir(thisFile))

	for _, pkg := range guardedPackages {
		dir := filepath.Join(internalDir, pkg)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			// Not built yet; nothing to guard.
			continue
		}
		if err != nil {
			t.Fatalf("reading %s: %v", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := scanForBypass(t, path); err != nil {
				t.Fatalf("scanning %s: %v", path, err)
			}
		}
	}
}

func scanForBypass(t *testing.T, path string) error {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if diagLiteralRe.MatchString(line) {
			t.Errorf("%s:%d: constructs diag.Diagnostic directly; report through lintctx.Context instead", path, lineNo)
		}
	}
	return scanner.Err()
}
