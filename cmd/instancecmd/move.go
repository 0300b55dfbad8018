// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package instancecmd

import (
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/spf13/cobra"
)

const (
	sourceZoneFlag      = "source-zone"
	destinationZoneFlag = "destination-zone"
)

var (
	sourceZone      string
	destinationZone string
	forceMove       bool
	keepSnapshots   bool
)

// gcloud instance move
func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <name-regex> [name-regex...]",
		Short: "Move instances matching the given regexes to another zone",
		Long: `Move the instances of --source-zone whose names fully match any of the
given regular expressions to --destination-zone.

Persistent disks attached to the moved instances are moved with them. A
disk shared with an instance that is not moving stops the move before
anything is changed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: moveInstances,
	}
	cmd.Flags().StringVar(&sourceZone, sourceZoneFlag, "", "the zone the instances are moved from")
	cmd.Flags().StringVar(&destinationZone, destinationZoneFlag, "", "the zone the instances are moved to")
	cmd.Flags().BoolVarP(&forceMove, "force", "f", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&keepSnapshots, "keep-snapshots", false, "do not delete the snapshots taken of the moved disks")
	return cmd
}

func moveInstances(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	src := computeoptions.ResolveZone(app, cmd, sourceZoneFlag, sourceZone)
	mover := newMover(s, forceMove, keepSnapshots, false)
	if err := mover.MoveInstances(ctx, src, destinationZone, args); err != nil {
		return err
	}
	s.Remember(destinationZone)
	return nil
}
