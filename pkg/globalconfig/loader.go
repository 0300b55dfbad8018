// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/palladius/gcloud/pkg/constants"
)

const (
	GlobalConfigFile  = "config.json"
	ProjectConfigFile = ".gcloudconfig.json"
)

var (
	globalConfigCache *GlobalConfig
	cacheMu           sync.RWMutex
)

// LoadGlobalConfig loads the global config from ~/.gcloud/config.json
func LoadGlobalConfig(baseDir string) (*GlobalConfig, error) {
	cacheMu.RLock()
	if globalConfigCache != nil {
		defer cacheMu.RUnlock()
		return globalConfigCache, nil
	}
	cacheMu.RUnlock()

	configPath := filepath.Join(baseDir, GlobalConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var config GlobalConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	cacheMu.Lock()
	globalConfigCache = &config
	cacheMu.Unlock()

	return &config, nil
}

// SaveGlobalConfig saves the global config to ~/.gcloud/config.json
func SaveGlobalConfig(baseDir string, config *GlobalConfig) error {
	if err := os.MkdirAll(baseDir, constants.DefaultPerms755); err != nil {
		return err
	}

	configPath := filepath.Join(baseDir, GlobalConfigFile)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	cacheMu.Lock()
	globalConfigCache = config
	cacheMu.Unlock()

	return os.WriteFile(configPath, data, constants.WriteReadReadPerms)
}

// LoadProjectConfig loads the project config by searching upward from startDir.
// The returned path is where the config lives, or startDir when none exists yet.
func LoadProjectConfig(startDir string) (*ProjectConfig, string, error) {
	projectRoot, err := FindProjectRoot(startDir)
	if err != nil {
		return nil, startDir, nil
	}

	configPath := filepath.Join(projectRoot, ProjectConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, projectRoot, nil
		}
		return nil, projectRoot, err
	}

	var config ProjectConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, projectRoot, err
	}

	return &config, projectRoot, nil
}

// SaveProjectConfig saves the project config to .gcloudconfig.json in dir
func SaveProjectConfig(dir string, config *ProjectConfig) error {
	configPath := filepath.Join(dir, ProjectConfigFile)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, constants.WriteReadReadPerms)
}

// RememberFlags stores project and zone in the flags cache of the nearest
// project config, creating one in startDir when needed.
func RememberFlags(startDir, project, zone string) error {
	config, dir, err := LoadProjectConfig(startDir)
	if err != nil {
		return err
	}
	if config == nil {
		config = &ProjectConfig{}
	}
	if config.Cache.Project == project && config.Cache.Zone == zone {
		return nil
	}
	config.Cache = FlagsCache{Project: project, Zone: zone}
	return SaveProjectConfig(dir, config)
}

// FindProjectRoot searches upward from startDir to find .gcloudconfig.json
func FindProjectRoot(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// ClearCache clears the global config cache
func ClearCache() {
	cacheMu.Lock()
	globalConfigCache = nil
	cacheMu.Unlock()
}
