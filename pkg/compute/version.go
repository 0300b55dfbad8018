// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"fmt"
	"slices"
)

// SupportedVersions lists the API versions this client speaks, oldest first.
var SupportedVersions = []string{"v1beta12", "v1beta13", "v1beta14", "v1beta15", "v1"}

// AtLeast reports whether current is the same as or newer than required.
func AtLeast(current, required string) (bool, error) {
	return atLeastIn(SupportedVersions, current, required)
}

func atLeastIn(versions []string, current, required string) (bool, error) {
	ci := slices.Index(versions, current)
	ri := slices.Index(versions, required)
	if ci < 0 || ri < 0 {
		return false, fmt.Errorf("%w: API version %s/%s unknown", ErrUnknownVersion, required, current)
	}
	return ci >= ri, nil
}

// ValidateVersion rejects unsupported service versions.
func ValidateVersion(version string) error {
	if !slices.Contains(SupportedVersions, version) {
		return fmt.Errorf("%w: %s (supported: %v)", ErrUnknownVersion, version, SupportedVersions)
	}
	return nil
}
