// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"

	"cloud.google.com/go/compute/metadata"
	"go.uber.org/zap"
)

var (
	onGCE             = metadata.OnGCE
	metadataProjectID = metadata.ProjectIDWithContext
)

// ResolveProject returns the denormalized project. When none is given and
// the process runs on GCE the project comes from the metadata server.
func ResolveProject(ctx context.Context, project string, log *zap.Logger) (string, error) {
	if project == "" && onGCE() {
		id, err := metadataProjectID(ctx)
		switch {
		case err != nil && log != nil:
			log.Debug("metadata server did not return a project", zap.Error(err))
		case err == nil:
			project = id
		}
	}
	return DenormalizeProjectName(project)
}
