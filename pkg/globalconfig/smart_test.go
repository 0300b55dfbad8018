// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectEnvironment(t *testing.T) {
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(k, "")
	}
	orig := onGCE
	t.Cleanup(func() { onGCE = orig })

	onGCE = func() bool { return false }
	require.Equal(t, EnvDevelopment, DetectEnvironment())
	require.True(t, IsInteractiveRecommended())

	onGCE = func() bool { return true }
	require.Equal(t, EnvGCE, DetectEnvironment())

	t.Setenv("CI", "true")
	require.Equal(t, EnvCI, DetectEnvironment())
	require.False(t, IsInteractiveRecommended())
}
