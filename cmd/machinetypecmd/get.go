// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package machinetypecmd

import (
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/spf13/cobra"
)

// gcloud machinetype get
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <machine-type-name>",
		Short: "Get a machine type",
		Args:  cobra.ExactArgs(1),
		RunE:  getMachineType,
	}
}

func getMachineType(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	machineType, err := s.Service.Get(ctx, compute.MachineTypes, "", compute.DenormalizeResourceName(args[0]))
	if err != nil {
		return err
	}
	s.Remember("")
	return s.Printer.Print(machineType, compute.MachineTypeView)
}
