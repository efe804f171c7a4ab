// Command movelint is the CLI entry point for the lint engine: `check`
// runs the registry against a file or package directory, `fix` applies
// available safe fixes, and `lints` lists the descriptor inventory.
//
// Grounded on the teacher's cmd/surge/main.go root-command wiring
// (rootCmd, PersistentFlags, AddCommand, os.Exit(1) on failure), trimmed
// to the subset movelint actually needs — no compiler-specific profiling
// flags, since internal/compiler is a collaborator interface with no
// concrete implementation shipped here (spec.md's Non-goal: "does not
// compile or execute Move code"). The --trace family below is movelint's
// own ambient-logging surface (internal/trace), not compiler profiling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"movelint/internal/trace"
	"movelint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "movelint",
	Short:             "Move/Sui static analysis lint engine",
	Long:              "movelint flags suspicious and unidiomatic Move/Sui patterns across syntactic, type-level, control-flow, and cross-module analyses.",
	PersistentPreRunE: setupTracing,
}

// init wires subcommands and persistent flags at package load time
// (rather than inside main, as the teacher does) so resolveSettings and
// the other flag-reading helpers work the same way under `go test` as
// they do under the built binary.
func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(lintsCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 1000, "maximum number of diagnostics to collect")
	rootCmd.PersistentFlags().Bool("preview", false, "enable preview-tier lints")
	rootCmd.PersistentFlags().Bool("experimental", false, "enable experimental and deprecated-tier lints")
	rootCmd.PersistentFlags().StringSlice("disable", nil, "lint names to force off")
	rootCmd.PersistentFlags().StringSlice("enable", nil, "lint names to force on")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk per-file diagnostic cache")

	rootCmd.PersistentFlags().String("trace-level", "off", "ambient tracing verbosity (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-output", "-", "trace stream output path (\"-\" for stderr)")
}

// setupTracing builds a trace.Tracer from --trace-level/--trace-mode/
// --trace-output and attaches it to the command's context, the same
// degrade-to-Nop convention internal/driver's entry points rely on:
// a run with --trace-level=off (the default) never leaves LevelOff, so
// trace.New hands back trace.Nop and every Begin/End call is a no-op.
func setupTracing(cmd *cobra.Command, _ []string) error {
	levelStr, err := cmd.Flags().GetString("trace-level")
	if err != nil {
		return err
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("movelint: %w", err)
	}

	modeStr, err := cmd.Flags().GetString("trace-mode")
	if err != nil {
		return err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("movelint: %w", err)
	}

	outputPath, err := cmd.Flags().GetString("trace-output")
	if err != nil {
		return err
	}

	tracer, err := trace.New(trace.Config{Level: level, Mode: mode, OutputPath: outputPath})
	if err != nil {
		return fmt.Errorf("movelint: setting up tracing: %w", err)
	}

	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return nil
}

func main() {
	rootCmd.Version = version.VersionString()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// wantColor resolves the --color flag against whether stdout looks like
// a terminal, mirroring the teacher's auto|on|off convention.
func wantColor(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
