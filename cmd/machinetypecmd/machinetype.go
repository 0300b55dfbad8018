// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package machinetypecmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/spf13/cobra"
)

var (
	app          *application.GCloud
	computeFlags *computeoptions.ComputeFlags

	newSession = computeoptions.NewSession
)

// gcloud machinetype
func NewCmd(injectedApp *application.GCloud, flags *computeoptions.ComputeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machinetype",
		Short: "Inspect the machine types offered by Google Compute Engine",
		Long: `The machinetype command suite retrieves the machine types available to
instances of a project.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	computeFlags = flags
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}
