// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

// Resolve returns the effective value for key considering config hierarchy
// Priority: flagValue (if flagChanged) > project config > flags cache > global config > defaults
func Resolve(merged *MergedConfig, key, flagValue string, flagChanged bool) (string, ConfigSource) {
	if flagChanged {
		return flagValue, SourceFlag
	}
	if merged == nil {
		return flagValue, SourceDefault
	}
	value, source, err := merged.Get(key)
	if err != nil || value == "" {
		return flagValue, SourceDefault
	}
	return value, source
}
