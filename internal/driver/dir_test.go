package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"movelint/internal/diagcache"
	"movelint/internal/registry"
)

func writeMoveFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLintDirectory_LintsEveryMoveFile(t *testing.T) {
	dir := t.TempDir()
	writeMoveFile(t, dir, "a.move", "fun f() { while (true) { break } }")
	writeMoveFile(t, dir, "b.move", "fun g() {}")
	writeMoveFile(t, dir, "c.txt", "not a move file")

	results, err := LintDirectory(context.Background(), dir, registry.Settings{}, nil, "", nil)
	if err != nil {
		t.Fatalf("LintDirectory: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 .move files, got %d: %v", len(results), results)
	}
	if results[0].Path > results[1].Path {
		t.Error("expected results sorted by path")
	}
	if !hasLint(results[0].Bag, "while_true_to_loop") {
		t.Error("expected a.move to flag while_true_to_loop")
	}
}

func TestLintDirectory_CacheHitSkipsReRun(t *testing.T) {
	dir := t.TempDir()
	writeMoveFile(t, dir, "a.move", "fun f() { while (true) { break } }")

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := diagcache.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	settings := registry.Settings{}
	digest := "v1"

	first, err := LintDirectory(context.Background(), dir, settings, cache, digest, nil)
	if err != nil {
		t.Fatalf("first LintDirectory: %v", err)
	}
	if !hasLint(first[0].Bag, "while_true_to_loop") {
		t.Fatal("expected first run to flag while_true_to_loop")
	}

	second, err := LintDirectory(context.Background(), dir, settings, cache, digest, nil)
	if err != nil {
		t.Fatalf("second LintDirectory: %v", err)
	}
	if !hasLint(second[0].Bag, "while_true_to_loop") {
		t.Error("expected cached replay to still flag while_true_to_loop")
	}
}

func TestLintDirectory_ProgressCallbackReachesTotal(t *testing.T) {
	dir := t.TempDir()
	writeMoveFile(t, dir, "a.move", "fun f() {}")
	writeMoveFile(t, dir, "b.move", "fun g() {}")

	maxDone := 0
	_, err := LintDirectory(context.Background(), dir, registry.Settings{}, nil, "", func(done, total int) {
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
		if done > maxDone {
			maxDone = done
		}
	})
	if err != nil {
		t.Fatalf("LintDirectory: %v", err)
	}
	if maxDone != 2 {
		t.Errorf("expected progress to reach 2, got %d", maxDone)
	}
}
