// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package operationcmd

import (
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/spf13/cobra"
)

var getZone string

// gcloud operation get
func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <operation-name>",
		Short: "Retrieve an operation resource",
		Args:  cobra.ExactArgs(1),
		RunE:  getOperation,
	}
	cmd.Flags().StringVar(&getZone, zoneFlag, "",
		"the zone of the operation or '"+constants.GlobalZoneName+"' for global operations")
	return cmd
}

func getOperation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	zone, err := compute.ZoneForResource(ctx, s.Service, compute.Operations, args[0], getZone, false, s.Log)
	if err != nil {
		return err
	}
	op, err := s.Service.Get(ctx, compute.Operations, zone, compute.DenormalizeResourceName(args[0]))
	if err != nil {
		return err
	}
	s.Remember(zone)
	return s.Printer.Print(op, compute.OperationView)
}
