// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"os"
	"path/filepath"
	"time"

	"github.com/palladius/gcloud/pkg/config"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/palladius/gcloud/pkg/prompts"
	"go.uber.org/zap"
)

type GCloud struct {
	Log        *zap.Logger
	baseDir    string
	workDir    string
	Conf       *config.Config
	Prompt     prompts.Prompter
	Downloader Downloader
}

func New() *GCloud {
	return &GCloud{}
}

func (app *GCloud) Setup(baseDir string, log *zap.Logger, conf *config.Config, prompt prompts.Prompter, downloader Downloader) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
	app.Downloader = downloader
	if wd, err := os.Getwd(); err == nil {
		app.workDir = wd
	}
}

func (app *GCloud) GetBaseDir() string {
	return app.baseDir
}

// GetWorkDir is where project config lookups start.
func (app *GCloud) GetWorkDir() string {
	return app.workDir
}

func (app *GCloud) SetWorkDir(dir string) {
	app.workDir = dir
}

func (app *GCloud) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *GCloud) GetConfigPath() string {
	return filepath.Join(app.baseDir, constants.DefaultConfigFileName+"."+constants.DefaultConfigFileType)
}

// GetMoveLogPath returns the path of a new move log, placed next to the base dir.
func (app *GCloud) GetMoveLogPath(now time.Time) string {
	return filepath.Join(filepath.Dir(app.baseDir), constants.MoveLogPrefix+now.Format(constants.MoveLogTimeFormat))
}

func (app *GCloud) GetDownloader() Downloader {
	return app.Downloader
}

// GetEffectiveConfig merges the global config with the nearest project config.
func (app *GCloud) GetEffectiveConfig() (*globalconfig.MergedConfig, error) {
	return globalconfig.GetEffectiveConfig(app.baseDir, app.workDir)
}

// RememberFlags records project and zone in the project flags cache.
func (app *GCloud) RememberFlags(project, zone string) {
	if app.workDir == "" {
		return
	}
	if err := globalconfig.RememberFlags(app.workDir, project, zone); err != nil {
		app.Log.Debug("could not update flags cache", zap.Error(err))
	}
}

// GetConfigValue reads viperKey from the environment or cli.yaml, falling
// back to configKey of the merged global and project configs.
func (app *GCloud) GetConfigValue(viperKey, configKey string) string {
	if app.Conf != nil && app.Conf.ConfigValueIsSet(viperKey) {
		return app.Conf.GetConfigStringValue(viperKey)
	}
	merged, err := app.GetEffectiveConfig()
	if err != nil {
		app.Log.Debug("could not load config files", zap.Error(err))
		return ""
	}
	v, _, _ := merged.Get(configKey)
	return v
}
