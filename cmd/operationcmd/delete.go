// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package operationcmd

import (
	"context"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/prompts"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	deleteZone string
	force      bool
)

// gcloud operation delete
func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <operation-name> [operation-name...]",
		Short: "Delete one or more operations",
		Args:  cobra.MinimumNArgs(1),
		RunE:  deleteOperations,
	}
	cmd.Flags().StringVar(&deleteZone, zoneFlag, "",
		"the zone of the operations or '"+constants.GlobalZoneName+"' for global operations")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func deleteOperations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}

	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = compute.DenormalizeResourceName(arg)
	}
	ok, err := prompts.ConfirmAction(app.Prompt, "Delete operation", names, force)
	if err != nil {
		return err
	}
	if !ok {
		ux.Logger.PrintToUser("Deletion aborted by user.")
		return nil
	}

	requests := make([]compute.Request, 0, len(args))
	for _, arg := range args {
		zone, err := compute.ZoneForResource(ctx, s.Service, compute.Operations, arg, deleteZone, false, s.Log)
		if err != nil {
			return err
		}
		name := compute.DenormalizeResourceName(arg)
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return s.Service.Delete(ctx, compute.Operations, zone, name)
		})
	}

	_, errs := s.Executor.Execute(ctx, requests, compute.Operations.Name)
	if len(errs) > 0 {
		return compute.NewCommandError("Encountered errors:\n%s", compute.ListErrors(httpMessages(errs), "  "))
	}
	s.Remember(deleteZone)
	return nil
}

type messageError string

func (e messageError) Error() string { return string(e) }

func httpMessages(errs []error) []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = messageError(compute.HTTPErrorMessage(err))
	}
	return out
}
