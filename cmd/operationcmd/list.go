// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package operationcmd

import (
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/spf13/cobra"
)

var (
	listFlags computeoptions.ListFlags
	listZone  string
)

// gcloud operation list
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the operations for a project",
		Long: `List the operations for a project. Without --zone the global operations and
the operations of every zone are listed.`,
		Args: cobra.NoArgs,
		RunE: listOperations,
	}
	cmd.Flags().StringVar(&listZone, zoneFlag, "", "the zone to list, or '"+constants.GlobalZoneName+"'")
	computeoptions.AddListFlagsToCmd(cmd, &listFlags, compute.OperationView)
	return cmd
}

func listOperations(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	spec := compute.ListSpec{Collection: compute.Operations, GlobalLevel: true, ZoneLevel: true}
	ops, err := compute.ListCollection(ctx, s.Service, spec, listZone, listFlags.ListOptions())
	if err != nil {
		return err
	}
	s.Remember(listZone)
	return s.Printer.PrintList(ops, compute.OperationView, listFlags.PrintOptions())
}
