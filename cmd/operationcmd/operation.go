// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package operationcmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/spf13/cobra"
)

const zoneFlag = "zone"

var (
	app          *application.GCloud
	computeFlags *computeoptions.ComputeFlags

	newSession = computeoptions.NewSession
)

// gcloud operation
func NewCmd(injectedApp *application.GCloud, flags *computeoptions.ComputeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operation",
		Short: "Inspect and delete Google Compute Engine operations",
		Long: `The operation command suite retrieves, lists and deletes the operations
created by requests against a project.

Operations live either in a zone or in the global namespace. Pass
--zone=` + constants.GlobalZoneName + ` to address global operations directly.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	computeFlags = flags
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}
