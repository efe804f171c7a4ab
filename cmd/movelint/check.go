package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"movelint/internal/diagcache"
	"movelint/internal/diagfmt"
	"movelint/internal/driver"
	"movelint/internal/registry"
	"movelint/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.move|directory>",
	Short: "Lint a Move file or package",
	Long:  "Run the registry against a single file (fast mode) or every *.move file under a directory (fast mode, per file, in parallel).",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
	checkCmd.Flags().Bool("progress", false, "show a live progress bar while checking a directory")
}

func runCheck(cmd *cobra.Command, args []string) error {
	targetPath := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("check: unknown --format %q (want text or json)", format)
	}

	settings, err := resolveSettings(cmd, targetPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	// check only runs fast mode (per spec.md §2, full mode needs a real
	// internal/compiler.Compiler binding this repository doesn't ship),
	// so the report lists fast mode's syntax-only registry rather than
	// the complete four-phase inventory `movelint lints` shows.
	reg, err := driver.FastModeRegistry()
	if err != nil {
		return err
	}

	var results []driver.NamedResult
	if info.IsDir() {
		results, err = lintDirectory(cmd, targetPath, settings)
	} else {
		results, err = lintSingleFile(cmd, targetPath, settings)
	}
	if err != nil {
		return err
	}

	hasErrors := false
	for _, res := range results {
		if res.Bag.HasErrors() {
			hasErrors = true
		}
		if err := render(cmd, format, reg, settings, res); err != nil {
			return err
		}
	}

	if hasErrors {
		return fmt.Errorf("check: one or more error-severity diagnostics were found")
	}
	return nil
}

func lintSingleFile(cmd *cobra.Command, path string, settings registry.Settings) ([]driver.NamedResult, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path comes directly from the CLI argument
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	res, err := driver.LintSourceWithSettings(cmd.Context(), path, src, settings)
	if err != nil {
		return nil, err
	}
	return []driver.NamedResult{{Path: path, SourceResult: res}}, nil
}

func lintDirectory(cmd *cobra.Command, path string, settings registry.Settings) ([]driver.NamedResult, error) {
	var cache *diagcache.Cache
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	if !noCache {
		cache, err = diagcache.Open()
		if err != nil {
			return nil, err
		}
	}

	showProgress := false
	if flag := cmd.Flags().Lookup("progress"); flag != nil {
		showProgress, err = cmd.Flags().GetBool("progress")
		if err != nil {
			return nil, err
		}
	}
	if showProgress && isTerminal(os.Stderr) {
		return lintDirectoryWithUI(cmd.Context(), path, settings, cache)
	}
	return driver.LintDirectory(cmd.Context(), path, settings, cache, settingsDigest(settings), nil)
}

func render(cmd *cobra.Command, format string, reg *registry.Registry, settings registry.Settings, res driver.NamedResult) error {
	switch format {
	case "json":
		run := report.Build(reg, settings, res.Bag, res.FileSet)
		out, err := run.ToSARIFLike()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(out))
		return err
	default:
		colorMode, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stdout, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:    wantColor(colorMode),
			PathMode: diagfmt.PathModeRelative,
			Context:  2,
		})
		return nil
	}
}
