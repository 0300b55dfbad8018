// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package gemcmd

import (
	"time"

	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

// gcloud gem releases
func newReleasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List the gems released to the release location",
		Args:  cobra.NoArgs,
		RunE:  listReleases,
	}
	addStorageFlags(cmd, "release location to list (default release.uri)")
	return cmd
}

func listReleases(cmd *cobra.Command, _ []string) error {
	objects, err := releasePipeline(cmd).Releases(cmd.Context())
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		ux.Logger.PrintToUser("No gems released yet.")
		return nil
	}
	rows := make([][]string, len(objects))
	for i, o := range objects {
		rows[i] = []string{
			o.Key,
			ux.ConvertToStringWithThousandSeparator(float64(o.Size)),
			o.Updated.UTC().Format(time.RFC3339),
		}
	}
	return ux.RenderTable(ux.Logger.Writer(), []string{"gem", "bytes", "updated"}, rows, false)
}
