// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package taskcmd

import (
	"github.com/palladius/gcloud/pkg/application"
	"github.com/spf13/cobra"
)

// gcloud task run
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <task>",
		Short: "Run a task alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(cmd, rootDir, releaseURI)
			if err != nil {
				return err
			}
			return r.Run(cmd.Context(), args[0])
		},
	}
}

// NewAliasCmds returns top-level commands running the aliases of the same
// name from the current directory.
func NewAliasCmds(injectedApp *application.GCloud) []*cobra.Command {
	app = injectedApp
	var cmds []*cobra.Command
	for _, name := range topLevelAliases {
		cmds = append(cmds, &cobra.Command{
			Use:   name,
			Short: aliasShort[name],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := newRunner(cmd, ".", "")
				if err != nil {
					return err
				}
				return r.Run(cmd.Context(), name)
			},
		})
	}
	return cmds
}

var topLevelAliases = []string{"install", "test", "prepdeploy", "gemdeploy"}

var aliasShort = map[string]string{
	"install":    "Install gcloud with the remote installer script",
	"test":       "Run the test suite",
	"prepdeploy": "Write the Manifest and the gemspec",
	"gemdeploy":  "Build and release the gem",
}
