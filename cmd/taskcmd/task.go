// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package taskcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/gemspec"
	"github.com/palladius/gcloud/pkg/tasks"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app *application.GCloud

	rootDir    string
	releaseURI string
)

// gcloud task
func NewCmd(injectedApp *application.GCloud) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Run project task aliases",
		Long: `The task command suite runs named aliases made of ordered steps.

The built-in aliases are help, install, test, prepdeploy and gemdeploy.
A tasks.yaml file at the project root adds aliases or replaces built-in
ones. Steps run one after the other and the first failing step stops
the alias; gcloud then exits with that step's exit code.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Println(err)
			}
		},
	}
	app = injectedApp
	cmd.PersistentFlags().StringVar(&rootDir, "root", ".", "project root holding tasks.yaml")
	cmd.PersistentFlags().StringVar(&releaseURI, "release-to", "", "release location used by the release builtin")
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

// loadAliases merges the built-in aliases with <root>/tasks.yaml.
func loadAliases(root string) (tasks.Aliases, error) {
	installURL := app.GetConfigValue(constants.ConfigInstallURL, "release.installUrl")
	if installURL == "" {
		installURL = constants.DefaultInstallScriptURL
	}
	aliases := tasks.Defaults(installURL)

	user, err := tasks.Load(filepath.Join(root, constants.TasksFileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return aliases, nil
	case err != nil:
		return nil, err
	}
	return tasks.Merge(aliases, user), nil
}

func newRunner(cmd *cobra.Command, root, release string) (*tasks.Runner, error) {
	aliases, err := loadAliases(root)
	if err != nil {
		return nil, err
	}
	r := tasks.NewRunner(aliases, app.Downloader, app.Log)
	r.Dir = root
	r.Stdout = ux.Logger.Writer()
	r.Stderr = cmd.ErrOrStderr()

	if release == "" {
		release = app.GetConfigValue(constants.ConfigReleaseURI, "release.uri")
	}
	p := &gemspec.Pipeline{
		Root:       root,
		ReleaseURI: release,
		Out:        ux.Logger,
		Log:        app.Log,
	}
	r.Register(tasks.BuiltinManifest, p.Manifest)
	r.Register(tasks.BuiltinBuildGemspec, p.Gemspec)
	r.Register(tasks.BuiltinRelease, p.Release)
	return r, nil
}
