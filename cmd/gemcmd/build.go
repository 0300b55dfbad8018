// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package gemcmd

import (
	"github.com/spf13/cobra"
)

// gcloud gem build
func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build a gem for every variant",
		Long: `Build packs the files listed in the Manifest, or matched by the
descriptor when there is no Manifest, into <name>-<version>.gem. Builds are
reproducible: the same files always produce the same checksum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := newPipeline().Build(cmd.Context())
			return err
		},
	}
}
