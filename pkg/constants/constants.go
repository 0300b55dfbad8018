// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	Version = "1.0.0"

	BaseDirName = ".gcloud"
	LogDir      = "logs"

	DefaultConfigFileName = "cli"
	DefaultConfigFileType = "yaml"
	EnvPrefix             = "GCLOUD"

	// Compute API
	DefaultAPIHost        = "https://www.googleapis.com/"
	DefaultServiceVersion = "v1beta14"
	GlobalZoneName        = "global"
	GoogleProjectPath     = "projects/google"
	ComputeScope          = "https://www.googleapis.com/auth/compute"
	StorageScope          = "https://www.googleapis.com/auth/devstorage.full_control"
	UserAgent             = "gcloud-go/" + Version

	DefaultSleepBetweenPolls    = 3 * time.Second
	MinSleepBetweenPolls        = 1 * time.Second
	MaxSleepBetweenPolls        = 600 * time.Second
	DefaultMaxWaitTime          = 240 * time.Second
	MinMaxWaitTime              = 30 * time.Second
	MaxMaxWaitTime              = 1200 * time.Second
	DefaultConcurrentOperations = 10
	MaxConcurrentOperations     = 20
	DefaultMaxResults           = 100

	// Long table values are elided to this width.
	MaxColumnWidth = 64

	MaxInstancesToMove = 100
	MaxDisksToMove     = 100
	MoveLogPrefix      = ".gcloud.move."
	MoveLogTimeFormat  = "20060102150405"

	// Packaging
	DescriptorFileName = "gemspec.yaml"
	TasksFileName      = "tasks.yaml"
	ManifestFileName   = "Manifest"
	GemspecSuffix      = ".gemspec"
	GemSuffix          = ".gem"
	PkgDir             = "pkg"
	GemContentType     = "application/octet-stream"

	DefaultInstallScriptURL = "https://raw.githubusercontent.com/palladius/gcloud/master/install.sh"

	APIRequestTimeout = 30 * time.Second
	DownloadTimeout   = 2 * time.Minute

	// Config keys
	ConfigProject         = "project"
	ConfigZone            = "zone"
	ConfigServiceVersion  = "service-version"
	ConfigAPIHost         = "api-host"
	ConfigFormat          = "format"
	ConfigCredentialsFile = "credentials-file"
	ConfigReleaseURI      = "release-uri"
	ConfigInstallURL      = "install-url"
	SkipUpdateFlag        = "skip-update-check"
	EnvNonInteractive     = "GCLOUD_NON_INTERACTIVE"
)
