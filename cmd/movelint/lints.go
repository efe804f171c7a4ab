package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"movelint/internal/driver"
)

var lintsCmd = &cobra.Command{
	Use:   "lints",
	Short: "List the lint registry",
	Long:  "Print every registered lint, its category, tier, and whether it ships a fix, filtered by the active tier settings.",
	Args:  cobra.NoArgs,
	RunE:  runLints,
}

func init() {
	lintsCmd.Flags().Bool("all", false, "list every lint regardless of tier settings")
}

func runLints(cmd *cobra.Command, _ []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	reg, err := driver.FullRegistry()
	if err != nil {
		return err
	}

	descs := reg.All()
	if !all {
		settings, err := resolveSettings(cmd, ".")
		if err != nil {
			return err
		}
		descs = reg.Enabled(settings)
	}

	for _, d := range descs {
		fixMark := " "
		if d.Fix.Available {
			fixMark = "*"
		}
		if _, err := fmt.Fprintf(os.Stdout, "%-40s %-13s %-12s %s %s\n", d.Name, d.Category.String(), d.Tier.String(), fixMark, d.Description); err != nil {
			return err
		}
	}

	return nil
}
