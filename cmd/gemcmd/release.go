// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package gemcmd

import (
	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/gemspec"
	"github.com/spf13/cobra"
)

var (
	releaseURI    string
	overwrite     bool
	releaseOpts   storage.Options
	releaseToFlag = "to"
)

// gcloud gem release
func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Build every variant and upload the gems",
		Long: `Release builds every selected variant and uploads the gems to the
location given by --to or the release.uri config setting:

  gs://bucket/prefix   Google Cloud Storage
  s3://bucket/prefix   Amazon S3 or a compatible endpoint
  file:///some/dir     a local directory

Releasing a version that already exists with different content fails
unless --overwrite is given. Every upload is read back and removed again
when its checksum does not match the built gem.`,
		Args: cobra.NoArgs,
		RunE: release,
	}
	addStorageFlags(cmd, "where to upload the gems")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "upload even when the gem is already released")
	return cmd
}

func addStorageFlags(cmd *cobra.Command, toUsage string) {
	cmd.Flags().StringVar(&releaseURI, releaseToFlag, "", toUsage)
	cmd.Flags().StringVar(&releaseOpts.Region, "region", "", "S3 region")
	cmd.Flags().StringVar(&releaseOpts.Endpoint, "endpoint", "", "S3 compatible endpoint URL")
	cmd.Flags().StringVar(&releaseOpts.Profile, "profile", "", "AWS shared config profile")
	cmd.Flags().StringVar(&releaseOpts.AssumeRoleARN, "assume-role-arn", "", "AWS role to assume")
	cmd.Flags().BoolVar(&releaseOpts.PathStyle, "path-style", false, "use path style S3 addressing")
}

// releasePipeline is a pipeline bound to the release location and
// credentials given by flags or config.
func releasePipeline(cmd *cobra.Command) *gemspec.Pipeline {
	p := newPipeline()
	p.ReleaseURI = releaseURI
	if !cmd.Flags().Changed(releaseToFlag) {
		p.ReleaseURI = app.GetConfigValue(constants.ConfigReleaseURI, "release.uri")
	}
	p.StorageOptions = releaseOpts
	if computeFlags != nil {
		p.StorageOptions.CredentialsFile = computeoptions.Resolve(app, cmd, computeFlags).CredentialsFile
	}
	return p
}

func release(cmd *cobra.Command, _ []string) error {
	p := releasePipeline(cmd)
	p.Overwrite = overwrite
	return p.Release(cmd.Context())
}
