// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

import (
	"os"

	"cloud.google.com/go/compute/metadata"
)

// Environment represents the detected execution environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvCI          Environment = "ci"
	EnvGCE         Environment = "gce"
)

var onGCE = metadata.OnGCE

// DetectEnvironment analyzes the current environment
func DetectEnvironment() Environment {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" || os.Getenv("JENKINS_URL") != "" {
		return EnvCI
	}
	if onGCE() {
		return EnvGCE
	}
	return EnvDevelopment
}

// IsInteractiveRecommended reports whether prompts should be shown by default.
func IsInteractiveRecommended() bool {
	return DetectEnvironment() != EnvCI
}
