// Package config loads movelint's project manifest — spec.md §6's
// Settings, as TOML on disk — grounded on the teacher's own
// surge.toml/project.FindSurgeToml pair (internal/project/root.go,
// cmd/surge/project_manifest.go): walk up from a start directory looking
// for the manifest file, then decode it with the same
// github.com/BurntSushi/toml dependency and meta.IsDefined presence
// checks the teacher uses to give a precise "missing [section]" error
// instead of silently defaulting.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"movelint/internal/lint"
	"movelint/internal/registry"
)

// ManifestName is the file FindManifest looks for, movelint's equivalent
// of the teacher's surge.toml.
const ManifestName = "movelint.toml"

// Manifest is a loaded, validated movelint.toml: where it lives and the
// settings it resolved to.
type Manifest struct {
	Path     string
	Root     string
	Package  PackageConfig
	Settings registry.Settings
}

// PackageConfig is the manifest's [package] table.
type PackageConfig struct {
	Name string
}

type fileConfig struct {
	Package packageSection `toml:"package"`
	Lints   lintsSection   `toml:"lints"`
}

type packageSection struct {
	Name string `toml:"name"`
}

type lintsSection struct {
	Preview            bool     `toml:"preview"`
	Experimental       bool     `toml:"experimental"`
	Disabled           []string `toml:"disabled"`
	Enabled            []string `toml:"enabled"`
	DisabledCategories []string `toml:"disabled_categories"`
}

// FindManifest walks up from startDir to locate movelint.toml, exactly
// like internal/project.FindSurgeToml walks up looking for surge.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("config: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("config: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and decodes movelint.toml starting from startDir. ok is
// false (with a nil error) when no manifest exists in any ancestor
// directory — callers fall back to built-in default Settings in that
// case, the same way the teacher's commands fall back when no
// surge.toml is present.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}

	cfg, err := loadFileConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}

	settings, err := toSettings(manifestPath, cfg.Lints)
	if err != nil {
		return nil, true, err
	}

	return &Manifest{
		Path:     manifestPath,
		Root:     filepath.Dir(manifestPath),
		Package:  PackageConfig{Name: cfg.Package.Name},
		Settings: settings,
	}, true, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return fileConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return fileConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

func toSettings(path string, l lintsSection) (registry.Settings, error) {
	cats := make([]lint.Category, 0, len(l.DisabledCategories))
	for _, name := range l.DisabledCategories {
		c, ok := parseCategory(name)
		if !ok {
			return registry.Settings{}, fmt.Errorf("%s: unknown [lints].disabled_categories entry %q", path, name)
		}
		cats = append(cats, c)
	}
	return registry.Settings{
		Preview:            l.Preview,
		Experimental:       l.Experimental,
		Disabled:           l.Disabled,
		Enabled:            l.Enabled,
		DisabledCategories: cats,
	}, nil
}

func parseCategory(name string) (lint.Category, bool) {
	switch name {
	case "security":
		return lint.CategorySecurity, true
	case "suspicious":
		return lint.CategorySuspicious, true
	case "style":
		return lint.CategoryStyle, true
	case "modernization":
		return lint.CategoryModernization, true
	case "naming":
		return lint.CategoryNaming, true
	case "test_quality":
		return lint.CategoryTestQuality, true
	default:
		return 0, false
	}
}
