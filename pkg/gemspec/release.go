// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/palladius/gcloud/pkg/constants"
)

var (
	ErrAlreadyReleased  = errors.New("artifact already released")
	ErrChecksumMismatch = errors.New("released object does not match the artifact")
)

type ReleaseOptions struct {
	// Overwrite uploads even when an object already exists under the key.
	Overwrite bool
}

// Release uploads artifact to store under key, or under the artifact's base
// name when key is empty. Re-releasing identical bytes is a no-op unless
// opts.Overwrite is set. The upload is read back and removed again when its
// checksum does not match.
func Release(ctx context.Context, store storage.Store, artifact *Artifact, key string, opts ReleaseOptions) (string, error) {
	if key == "" {
		key = filepath.Base(artifact.Path)
	}
	existing, err := store.Stat(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return "", fmt.Errorf("failed to check %s: %w", key, err)
	case opts.Overwrite:
	case existing.Metadata["sha256"] == artifact.SHA256:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAlreadyReleased, key)
	}

	err = storage.PutFile(ctx, store, key, artifact.Path, storage.PutOptions{
		ContentType: constants.GemContentType,
		Metadata: map[string]string{
			"sha256": artifact.SHA256,
			"size":   fmt.Sprint(artifact.Size),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to release %s: %w", key, err)
	}
	if err := verifyRelease(ctx, store, key, artifact.SHA256); err != nil {
		if delErr := store.Delete(ctx, key); delErr != nil {
			return "", errors.Join(err, fmt.Errorf("failed to remove %s: %w", key, delErr))
		}
		return "", err
	}
	return key, nil
}

func verifyRelease(ctx context.Context, store storage.Store, key, want string) error {
	h := sha256.New()
	if err := store.Get(ctx, key, h); err != nil {
		return fmt.Errorf("failed to read back %s: %w", key, err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != want {
		return fmt.Errorf("%w: %s has sha256 %s, want %s", ErrChecksumMismatch, key, got, want)
	}
	return nil
}

// Releases lists the gems stored below prefix, sorted by key.
func Releases(ctx context.Context, store storage.Store, prefix string) ([]storage.Object, error) {
	objects, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	gems := objects[:0]
	for _, o := range objects {
		if strings.HasSuffix(o.Key, constants.GemSuffix) {
			gems = append(gems, o)
		}
	}
	sort.Slice(gems, func(i, j int) bool { return gems[i].Key < gems[j].Key })
	return gems, nil
}
