// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package taskcmd

import (
	"strings"

	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

// gcloud task list
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the task aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			aliases, err := loadAliases(rootDir)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(aliases))
			for _, name := range aliases.Names() {
				alias := aliases[name]
				steps := make([]string, len(alias.Steps))
				for i, step := range alias.Steps {
					steps[i] = step.String()
				}
				rows = append(rows, []string{name, alias.Description, strings.Join(steps, "; ")})
			}
			return ux.RenderTable(ux.Logger.Writer(), []string{"task", "description", "steps"}, rows, false)
		},
	}
}
