// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package move

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/constants"
)

// Log records a move in progress so that it can be resumed.
type Log struct {
	Version          string             `json:"version"`
	DestZone         string             `json:"dest_zone"`
	SrcZone          string             `json:"src_zone"`
	Instances        []compute.Resource `json:"instances"`
	SnapshotMappings map[string]string  `json:"snapshot_mappings"`
}

var requiredLogKeys = []string{"src_zone", "dest_zone", "snapshot_mappings", "instances"}

func WriteLog(path string, l *Log) error {
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, constants.WriteReadReadPerms)
}

func ReadLog(path string) (*Log, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, compute.NewCommandError("File not found: %s", path)
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse move log %s: %w", path, err)
	}
	for _, key := range requiredLogKeys {
		if raw[key] == nil {
			return nil, compute.NewCommandError("The log file did not contain a '%s' key.", key)
		}
	}

	var l Log
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("failed to parse move log %s: %w", path, err)
	}
	return &l, nil
}
