// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"

	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
)

var setLocal bool

// gcloud config set
func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long: `Change a setting in the global config, or with --local in the project
config of the current directory.

Examples:
  gcloud config set compute.project my-project
  gcloud config set --local release.uri gs://my-bucket/gems`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
	cmd.Flags().BoolVar(&setLocal, "local", false, "write to the project config instead of the global one")
	return cmd
}

func runSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if setLocal {
		return setProjectValue(key, value)
	}
	return setGlobalValue(key, value)
}

func setGlobalValue(key, value string) error {
	baseDir := app.GetBaseDir()
	config, err := globalconfig.LoadGlobalConfig(baseDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if config == nil {
		config = &globalconfig.GlobalConfig{Version: globalconfig.ConfigVersion}
	}
	if err := globalconfig.Set(config, key, value); err != nil {
		return err
	}
	if err := globalconfig.SaveGlobalConfig(baseDir, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	ux.Logger.PrintToUser("Set %s = %s in global config", key, value)
	return nil
}

func setProjectValue(key, value string) error {
	config, dir, err := globalconfig.LoadProjectConfig(app.GetWorkDir())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if config == nil {
		config = &globalconfig.ProjectConfig{
			GlobalConfig: globalconfig.GlobalConfig{Version: globalconfig.ConfigVersion},
		}
	}
	if err := globalconfig.Set(&config.GlobalConfig, key, value); err != nil {
		return err
	}
	if err := globalconfig.SaveProjectConfig(dir, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	ux.Logger.PrintToUser("Set %s = %s in project config", key, value)
	return nil
}
