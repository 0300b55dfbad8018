// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package kernelcmd

import (
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/spf13/cobra"
)

var listFlags computeoptions.ListFlags

// gcloud kernel list
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the kernels for a project",
		Args:  cobra.NoArgs,
		RunE:  listKernels,
	}
	computeoptions.AddListFlagsToCmd(cmd, &listFlags, compute.KernelView)
	return cmd
}

func listKernels(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	kernels, err := compute.ListAll(ctx, s.Service, compute.Kernels, "", listFlags.ListOptions())
	if err != nil {
		return err
	}
	s.Remember("")
	return s.Printer.PrintList(kernels, compute.KernelView, listFlags.PrintOptions())
}
