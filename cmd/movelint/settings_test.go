package main

import (
	"os"
	"path/filepath"
	"testing"

	"movelint/internal/registry"
)

func TestResolveSettings_FlagsMergeWithManifest(t *testing.T) {
	root := t.TempDir()
	manifest := `[package]
name = "demo"

[lints]
disabled = ["while_true_to_loop"]
`
	if err := os.WriteFile(filepath.Join(root, "movelint.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	cmd := checkCmd
	cmd.SetArgs(nil)
	if err := cmd.Root().PersistentFlags().Set("disable", "unused_import"); err != nil {
		t.Fatalf("setting --disable: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Root().PersistentFlags().Set("disable", "") })

	settings, err := resolveSettings(cmd, root)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}

	want := map[string]bool{"while_true_to_loop": true, "unused_import": true}
	for _, name := range settings.Disabled {
		delete(want, name)
	}
	if len(want) != 0 {
		t.Errorf("expected both manifest and flag disables present, missing %v in %v", want, settings.Disabled)
	}
}

func TestSettingsDigest_DiffersWhenOverridesDiffer(t *testing.T) {
	a := settingsDigest(registry.Settings{Disabled: []string{"x"}})
	b := settingsDigest(registry.Settings{Disabled: []string{"y"}})
	if a == b {
		t.Error("expected different Settings to produce different digests")
	}

	c := settingsDigest(registry.Settings{Disabled: []string{"x"}})
	if a != c {
		t.Error("expected equal Settings to produce equal digests")
	}
}
