package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"movelint/internal/config"
	"movelint/internal/registry"
)

// resolveSettings merges a movelint.toml manifest (if one is found
// walking up from startDir, per internal/config.Load) with the root
// command's --preview/--experimental/--disable/--enable overrides. The
// flags add to the manifest rather than replace it: --preview and
// --experimental can only switch a gate on, and --disable/--enable are
// appended to the manifest's own Disabled/Enabled lists.
func resolveSettings(cmd *cobra.Command, startDir string) (registry.Settings, error) {
	settings := registry.Settings{}
	if manifest, ok, err := config.Load(startDir); err != nil {
		return registry.Settings{}, err
	} else if ok {
		settings = manifest.Settings
	}

	root := cmd.Root().PersistentFlags()

	if preview, err := root.GetBool("preview"); err != nil {
		return registry.Settings{}, err
	} else if preview {
		settings.Preview = true
	}
	if experimental, err := root.GetBool("experimental"); err != nil {
		return registry.Settings{}, err
	} else if experimental {
		settings.Experimental = true
	}
	if disable, err := root.GetStringSlice("disable"); err != nil {
		return registry.Settings{}, err
	} else if len(disable) > 0 {
		settings.Disabled = append(settings.Disabled, disable...)
	}
	if enable, err := root.GetStringSlice("enable"); err != nil {
		return registry.Settings{}, err
	} else if len(enable) > 0 {
		settings.Enabled = append(settings.Enabled, enable...)
	}

	return settings, nil
}

// settingsDigest fingerprints settings well enough to invalidate
// diagcache entries when tier/override flags change between runs; it
// does not need to be cryptographic, only stable for equal inputs.
func settingsDigest(settings registry.Settings) string {
	return fmt.Sprintf("%+v", settings)
}
