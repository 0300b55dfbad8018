// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestConfigValues(t *testing.T) {
	require := require.New(t)

	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "cli.yaml"))
	v.SetDefault("format", "table")
	v.SetDefault("sleep-between-polls", "3s")
	c := NewWith(v)

	require.Equal("table", c.GetConfigStringValue("format"))
	require.Equal(3*time.Second, c.GetConfigDurationValue("sleep-between-polls"))
	require.False(c.ConfigValueIsSet("project"))
	require.False(c.ConfigFileExists())

	require.NoError(c.SetConfigValue("project", "my-project"))
	require.True(c.ConfigValueIsSet("project"))
	require.Equal("my-project", c.GetConfigStringValue("project"))
	require.FileExists(v.ConfigFileUsed())
}
