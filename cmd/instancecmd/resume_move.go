// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package instancecmd

import (
	"github.com/spf13/cobra"
)

var (
	forceResume      bool
	keepLogFile      bool
	resumeKeepsSnaps bool
)

// gcloud instance resume-move
func newResumeMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume-move <log-path>",
		Short: "Resume a move that did not complete",
		Long: `Resume the move recorded in the given log file. Steps the earlier attempt
already completed are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: resumeMove,
	}
	cmd.Flags().BoolVarP(&forceResume, "force", "f", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&keepLogFile, "keep-log-file", false, "keep the log file once the move completes")
	cmd.Flags().BoolVar(&resumeKeepsSnaps, "keep-snapshots", false, "do not delete the snapshots taken of the moved disks")
	return cmd
}

func resumeMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, app, cmd, computeFlags)
	if err != nil {
		return err
	}
	return newMover(s, forceResume, resumeKeepsSnaps, keepLogFile).ResumeMove(ctx, args[0])
}
