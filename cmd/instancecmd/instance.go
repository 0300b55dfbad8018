// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package instancecmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/compute/move"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app          *application.GCloud
	computeFlags *computeoptions.ComputeFlags

	newSession = computeoptions.NewSession
)

// gcloud instance
func NewCmd(injectedApp *application.GCloud, flags *computeoptions.ComputeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Move Google Compute Engine instances between zones",
		Long: `The instance command suite relocates instances, together with their
persistent disks, from one zone to another.

A move deletes the instances, snapshots their disks, recreates the disks
in the destination zone and finally recreates the instances there. The
progress of a move is recorded in a log file so that an interrupted move
can be finished with resume-move.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	computeFlags = flags
	cmd.AddCommand(newMoveCmd())
	cmd.AddCommand(newResumeMoveCmd())
	return cmd
}

// newMover wires a Mover to s. Every phase of a move has to finish before
// the next one starts, so operations are always waited on.
func newMover(s *computeoptions.Session, force, keepSnapshots, keepLogFile bool) *move.Mover {
	executor := *s.Executor
	executor.Waiter = s.Waiter
	return &move.Mover{
		Service:       s.Service,
		Executor:      &executor,
		Prompt:        app.Prompt,
		Out:           ux.Logger,
		Log:           s.Log,
		Poll:          s.Flags.SleepBetweenPolls,
		MaxWait:       s.Flags.MaxWaitTime,
		Force:         force,
		KeepSnapshots: keepSnapshots,
		KeepLogFile:   keepLogFile,
		LogPath:       app.GetMoveLogPath,
	}
}
