// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var listShowSources bool

// gcloud config list
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every setting",
		Long: `List the effective value of every setting. Use --sources to see where each
value comes from.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().BoolVar(&listShowSources, "sources", false, "show the source of each value")
	return cmd
}

func runList(_ *cobra.Command, _ []string) error {
	merged, err := app.GetEffectiveConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	header := []string{"key", "value"}
	if listShowSources {
		header = append(header, "source")
	}
	var rows [][]string
	for _, key := range globalconfig.Keys() {
		value, source, err := merged.Get(key)
		if err != nil {
			return err
		}
		row := []string{key, value}
		if listShowSources {
			row = append(row, string(source))
		}
		rows = append(rows, row)
	}
	return ux.RenderTable(ux.Logger.Writer(), header, rows, true)
}
