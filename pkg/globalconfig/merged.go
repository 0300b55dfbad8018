// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigSource indicates where a config value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceGlobal  ConfigSource = "global"
	SourceCache   ConfigSource = "cache"
	SourceProject ConfigSource = "project"
	SourceFlag    ConfigSource = "flag"
)

// MergedConfig holds the final merged configuration with source tracking
type MergedConfig struct {
	Config  GlobalConfig
	Sources ConfigSources
}

// ConfigSources tracks where each config value originated
type ConfigSources struct {
	Project              ConfigSource
	Zone                 ConfigSource
	ServiceVersion       ConfigSource
	APIHost              ConfigSource
	Format               ConfigSource
	CredentialsFile      ConfigSource
	ConcurrentOperations ConfigSource
	ReleaseURI           ConfigSource
	InstallURL           ConfigSource
}

// Merge combines default, global, and project configs with proper precedence
// Hierarchy: project > flags cache > global > defaults
func Merge(global *GlobalConfig, project *ProjectConfig) *MergedConfig {
	merged := &MergedConfig{
		Config: DefaultGlobalConfig(),
		Sources: ConfigSources{
			Project:              SourceDefault,
			Zone:                 SourceDefault,
			ServiceVersion:       SourceDefault,
			APIHost:              SourceDefault,
			Format:               SourceDefault,
			CredentialsFile:      SourceDefault,
			ConcurrentOperations: SourceDefault,
			ReleaseURI:           SourceDefault,
			InstallURL:           SourceDefault,
		},
	}

	if global != nil {
		mergeInto(merged, global, SourceGlobal)
	}

	if project != nil {
		if project.Cache.Project != "" {
			merged.Config.Compute.Project = project.Cache.Project
			merged.Sources.Project = SourceCache
		}
		if project.Cache.Zone != "" {
			merged.Config.Compute.Zone = project.Cache.Zone
			merged.Sources.Zone = SourceCache
		}
		mergeInto(merged, &project.GlobalConfig, SourceProject)
	}

	return merged
}

func mergeInto(merged *MergedConfig, from *GlobalConfig, source ConfigSource) {
	c := from.Compute
	if c.Project != "" {
		merged.Config.Compute.Project = c.Project
		merged.Sources.Project = source
	}
	if c.Zone != "" {
		merged.Config.Compute.Zone = c.Zone
		merged.Sources.Zone = source
	}
	if c.ServiceVersion != "" {
		merged.Config.Compute.ServiceVersion = c.ServiceVersion
		merged.Sources.ServiceVersion = source
	}
	if c.APIHost != "" {
		merged.Config.Compute.APIHost = c.APIHost
		merged.Sources.APIHost = source
	}
	if c.Format != "" {
		merged.Config.Compute.Format = c.Format
		merged.Sources.Format = source
	}
	if c.CredentialsFile != "" {
		merged.Config.Compute.CredentialsFile = c.CredentialsFile
		merged.Sources.CredentialsFile = source
	}
	if c.ConcurrentOperations != nil {
		merged.Config.Compute.ConcurrentOperations = c.ConcurrentOperations
		merged.Sources.ConcurrentOperations = source
	}

	r := from.Release
	if r.URI != "" {
		merged.Config.Release.URI = r.URI
		merged.Sources.ReleaseURI = source
	}
	if r.InstallURL != "" {
		merged.Config.Release.InstallURL = r.InstallURL
		merged.Sources.InstallURL = source
	}
}

// Keys lists every key accepted by Get and Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type accessor struct {
	get    func(*MergedConfig) (string, ConfigSource)
	set    func(*GlobalConfig, string) error
	source func(*ConfigSources) *ConfigSource
}

func stringField(field func(*GlobalConfig) *string, source func(*ConfigSources) *ConfigSource) accessor {
	return accessor{
		get: func(m *MergedConfig) (string, ConfigSource) {
			return *field(&m.Config), *source(&m.Sources)
		},
		set: func(g *GlobalConfig, v string) error {
			*field(g) = v
			return nil
		},
		source: source,
	}
}

var accessors = map[string]accessor{
	"compute.project": stringField(
		func(g *GlobalConfig) *string { return &g.Compute.Project },
		func(s *ConfigSources) *ConfigSource { return &s.Project }),
	"compute.zone": stringField(
		func(g *GlobalConfig) *string { return &g.Compute.Zone },
		func(s *ConfigSources) *ConfigSource { return &s.Zone }),
	"compute.serviceVersion": stringField(
		func(g *GlobalConfig) *string { return &g.Compute.ServiceVersion },
		func(s *ConfigSources) *ConfigSource { return &s.ServiceVersion }),
	"compute.apiHost": stringField(
		func(g *GlobalConfig) *string { return &g.Compute.APIHost },
		func(s *ConfigSources) *ConfigSource { return &s.APIHost }),
	"compute.format": stringField(
		func(g *GlobalConfig) *string { return &g.Compute.Format },
		func(s *ConfigSources) *ConfigSource { return &s.Format }),
	"compute.credentialsFile": stringField(
		func(g *GlobalConfig) *string { return &g.Compute.CredentialsFile },
		func(s *ConfigSources) *ConfigSource { return &s.CredentialsFile }),
	"compute.concurrentOperations": {
		get: func(m *MergedConfig) (string, ConfigSource) {
			if m.Config.Compute.ConcurrentOperations == nil {
				return "", m.Sources.ConcurrentOperations
			}
			return fmt.Sprintf("%d", *m.Config.Compute.ConcurrentOperations), m.Sources.ConcurrentOperations
		},
		set: func(g *GlobalConfig, v string) error {
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n < 1 {
				return fmt.Errorf("invalid value for compute.concurrentOperations: %q", v)
			}
			g.Compute.ConcurrentOperations = &n
			return nil
		},
		source: func(s *ConfigSources) *ConfigSource { return &s.ConcurrentOperations },
	},
	"release.uri": stringField(
		func(g *GlobalConfig) *string { return &g.Release.URI },
		func(s *ConfigSources) *ConfigSource { return &s.ReleaseURI }),
	"release.installUrl": stringField(
		func(g *GlobalConfig) *string { return &g.Release.InstallURL },
		func(s *ConfigSources) *ConfigSource { return &s.InstallURL }),
}

// Get returns the effective value of key and where it came from.
func (m *MergedConfig) Get(key string) (string, ConfigSource, error) {
	a, ok := accessors[key]
	if !ok {
		return "", "", unknownKey(key)
	}
	v, src := a.get(m)
	return v, src, nil
}

// Set assigns key on a raw (unmerged) config.
func Set(config *GlobalConfig, key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return unknownKey(key)
	}
	return a.set(config, value)
}

func unknownKey(key string) error {
	if !strings.Contains(key, ".") {
		return fmt.Errorf("invalid key format: use section.setting (e.g., compute.zone)")
	}
	return fmt.Errorf("unknown setting: %s", key)
}

// GetEffectiveConfig loads and merges all config sources
func GetEffectiveConfig(baseDir, workDir string) (*MergedConfig, error) {
	global, err := LoadGlobalConfig(baseDir)
	if err != nil {
		return nil, err
	}

	project, _, err := LoadProjectConfig(workDir)
	if err != nil {
		return nil, err
	}

	return Merge(global, project), nil
}
