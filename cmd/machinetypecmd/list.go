// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package machinetypecmd

import (
	"sort"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/spf13/cobra"
)

var listFlags computeoptions.ListFlags

// gcloud machinetype list
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the machine types for a project",
		Long: `List the machine types for a project. Without --sort-by the types are
ordered by family (standard, highcpu, highmem) and then by name.`,
		Args: cobra.NoArgs,
		RunE: listMachineTypes,
	}
	computeoptions.AddListFlagsToCmd(cmd, &listFlags, compute.MachineTypeView)
	return cmd
}

func listMachineTypes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	machineTypes, err := compute.ListAll(ctx, s.Service, compute.MachineTypes, "", listFlags.ListOptions())
	if err != nil {
		return err
	}
	s.Remember("")

	opts := listFlags.PrintOptions()
	if opts.SortBy == "" {
		machineTypes = byFamily(machineTypes)
		view := compute.MachineTypeView
		view.DefaultSort = ""
		return s.Printer.PrintList(machineTypes, view, opts)
	}
	return s.Printer.PrintList(machineTypes, compute.MachineTypeView, opts)
}

func byFamily(list compute.Resource) compute.Resource {
	items := list.Items()
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := compute.MachineTypeSortScore(items[i].Name()), compute.MachineTypeSortScore(items[j].Name())
		if si != sj {
			return si < sj
		}
		return items[i].Name() < items[j].Name()
	})
	sorted := make([]any, len(items))
	for i, item := range items {
		sorted[i] = map[string]any(item)
	}
	return compute.Resource{"kind": list.Kind(), "items": sorted}
}
