// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

// GlobalConfig represents the global configuration stored in ~/.gcloud/config.json
type GlobalConfig struct {
	Version string        `json:"version"`
	Compute ComputeConfig `json:"compute"`
	Release ReleaseConfig `json:"release"`
}

// ComputeConfig contains the compute command defaults
type ComputeConfig struct {
	Project              string `json:"project,omitempty"`
	Zone                 string `json:"zone,omitempty"`
	ServiceVersion       string `json:"serviceVersion,omitempty"`
	APIHost              string `json:"apiHost,omitempty"`
	Format               string `json:"format,omitempty"`
	CredentialsFile      string `json:"credentialsFile,omitempty"`
	ConcurrentOperations *int   `json:"concurrentOperations,omitempty"`
}

// ReleaseConfig contains packaging and release settings
type ReleaseConfig struct {
	URI        string `json:"uri,omitempty"`
	InstallURL string `json:"installUrl,omitempty"`
}

// FlagsCache remembers the flags of the last successful compute command
type FlagsCache struct {
	Project string `json:"project,omitempty"`
	Zone    string `json:"zone,omitempty"`
}

// ProjectConfig represents project-local configuration in .gcloudconfig.json
type ProjectConfig struct {
	GlobalConfig
	Cache FlagsCache `json:"cache"`
}
