// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	v *viper.Viper
}

// New wraps the process-wide viper instance.
func New() *Config {
	return &Config{v: viper.GetViper()}
}

// NewWith wraps a specific viper instance, used by tests.
func NewWith(v *viper.Viper) *Config {
	return &Config{v: v}
}

func (c *Config) GetConfigStringValue(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetConfigIntValue(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetConfigDurationValue(key string) time.Duration {
	return c.v.GetDuration(key)
}

func (c *Config) ConfigValueIsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *Config) ConfigFileExists() bool {
	return c.v.ConfigFileUsed() != ""
}

func (c *Config) GetConfigBoolValue(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) SetConfigValue(key string, value interface{}) error {
	c.v.Set(key, value)
	return c.v.WriteConfig()
}

// AllSettings returns every resolved key.
func (c *Config) AllSettings() map[string]interface{} {
	return c.v.AllSettings()
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}
