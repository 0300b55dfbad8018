// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/palladius/gcloud/pkg/constants"
)

const MetadataFileName = "metadata.json"

// Entries carry a fixed timestamp so identical inputs give identical bytes.
var buildEpoch = time.Unix(0, 0).UTC()

// Artifact is a built package.
type Artifact struct {
	Path   string
	SHA256 string
	Size   int64
}

// Metadata is stored as metadata.json inside the package.
type Metadata struct {
	Descriptor
	Files []string `json:"files"`
}

// Build packs files (relative to root) into outDir/<name>-<version>.gem.
func Build(ctx context.Context, root string, d Descriptor, files []string, outDir string) (*Artifact, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid descriptor: %w", err)
	}
	if err := os.MkdirAll(outDir, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	files = sortUnique(files)
	path := filepath.Join(outDir, d.GemFileName())

	if err := writeGem(ctx, path, root, d, files); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	sum, err := storage.FileChecksum(path)
	if err != nil {
		return nil, err
	}
	return &Artifact{Path: path, SHA256: sum, Size: info.Size()}, nil
}

func writeGem(ctx context.Context, path, root string, d Descriptor, files []string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	gz, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		return err
	}
	gz.ModTime = buildEpoch
	tw := tar.NewWriter(gz)

	meta, err := json.MarshalIndent(Metadata{Descriptor: d, Files: files}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := tw.WriteHeader(&tar.Header{
		Name:    MetadataFileName,
		Mode:    constants.WriteReadReadPerms,
		Size:    int64(len(meta)),
		ModTime: buildEpoch,
		Format:  tar.FormatPAX,
	}); err != nil {
		return err
	}
	if _, err := tw.Write(meta); err != nil {
		return err
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addFile(tw, root, name); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addFile(tw *tar.Writer, root, name string) error {
	src := filepath.Join(root, filepath.FromSlash(name))
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	mode := int64(constants.WriteReadReadPerms)
	if info.Mode().Perm()&0o111 != 0 {
		mode = constants.DefaultPerms755
	}
	if err := tw.WriteHeader(&tar.Header{
		Name:    "data/" + name,
		Mode:    mode,
		Size:    info.Size(),
		ModTime: buildEpoch,
		Format:  tar.FormatPAX,
	}); err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	return nil
}
