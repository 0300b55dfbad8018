// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package gemcmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/gemspec"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app          *application.GCloud
	computeFlags *computeoptions.ComputeFlags

	rootDir        string
	descriptorPath string
	outDir         string
	variants       []string

	// openStore is swapped by tests.
	openStore = storage.Open
)

// gcloud gem
func NewCmd(injectedApp *application.GCloud, flags *computeoptions.ComputeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gem",
		Short: "Package and release the gcloud gem",
		Long: `The gem command suite packages a project checkout into gems.

The package is described by gemspec.yaml at the project root. Without one
the built-in description is used, which declares the gcloud and
googlecloud variants. Every command acts on all variants unless --variant
selects some.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	computeFlags = flags
	cmd.PersistentFlags().StringVar(&rootDir, "root", ".", "project root to package")
	cmd.PersistentFlags().StringVar(&descriptorPath, "descriptor", "", "package descriptor (default <root>/gemspec.yaml)")
	cmd.PersistentFlags().StringVar(&outDir, "out", "", "output directory for built gems (default <root>/pkg)")
	cmd.PersistentFlags().StringSliceVar(&variants, "variant", nil, "variants to act on (default all)")
	cmd.AddCommand(newManifestCmd())
	cmd.AddCommand(newGemspecCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newReleaseCmd())
	cmd.AddCommand(newReleasesCmd())
	cmd.AddCommand(newCleanCmd())
	return cmd
}

func newPipeline() *gemspec.Pipeline {
	return &gemspec.Pipeline{
		Root:           rootDir,
		DescriptorPath: descriptorPath,
		OutDir:         outDir,
		Variants:       variants,
		Out:            ux.Logger,
		Log:            app.Log,
		OpenStore:      openStore,
	}
}
