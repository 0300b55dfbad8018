// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package kernelcmd

import (
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/spf13/cobra"
)

// gcloud kernel get
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kernel-name>",
		Short: "Get a kernel",
		Args:  cobra.ExactArgs(1),
		RunE:  getKernel,
	}
}

func getKernel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	kernel, err := s.Service.Get(ctx, compute.Kernels, "", compute.DenormalizeResourceName(args[0]))
	if err != nil {
		return err
	}
	s.Remember("")
	return s.Printer.Print(kernel, compute.KernelView)
}
