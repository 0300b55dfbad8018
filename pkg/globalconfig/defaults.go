// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

import "github.com/palladius/gcloud/pkg/constants"

const (
	// ConfigVersion is the current version of the config schema
	ConfigVersion = "1.0.0"

	DefaultFormat = "table"
)

// DefaultGlobalConfig returns a new GlobalConfig with default values
func DefaultGlobalConfig() GlobalConfig {
	concurrent := constants.DefaultConcurrentOperations

	return GlobalConfig{
		Version: ConfigVersion,
		Compute: ComputeConfig{
			ServiceVersion:       constants.DefaultServiceVersion,
			APIHost:              constants.DefaultAPIHost,
			Format:               DefaultFormat,
			ConcurrentOperations: &concurrent,
		},
		Release: ReleaseConfig{
			InstallURL: constants.DefaultInstallScriptURL,
		},
	}
}
