// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package gemcmd

import (
	"github.com/spf13/cobra"
)

// gcloud gem manifest
func newManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Write the Manifest listing every packaged file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newPipeline().Manifest(cmd.Context())
		},
	}
}

// gcloud gem gemspec
func newGemspecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gemspec",
		Short: "Write a <name>.gemspec file for every variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newPipeline().Gemspec(cmd.Context())
		},
	}
}

// gcloud gem clean
func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the build output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newPipeline().Clean(cmd.Context())
		},
	}
}
