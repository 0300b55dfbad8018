// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var getShowSource bool

// gcloud config get
func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a setting",
		Long: `Print the value of a setting after merging the defaults, the global config,
the flags cache and the project config.

Examples:
  gcloud config get compute.zone
  gcloud config get --source release.uri`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
	cmd.Flags().BoolVar(&getShowSource, "source", false, "also show where the value comes from")
	return cmd
}

func runGet(_ *cobra.Command, args []string) error {
	merged, err := app.GetEffectiveConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	value, source, err := merged.Get(args[0])
	if err != nil {
		return err
	}
	if getShowSource {
		ux.Logger.PrintToUser("%s = %s (source: %s)", args[0], value, source)
		return nil
	}
	ux.Logger.PrintToUser("%s = %s", args[0], value)
	return nil
}
