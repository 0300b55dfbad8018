// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"archive/tar"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/stretchr/testify/require"
)

func readGem(t *testing.T, path string) map[string]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(b)
	}
	return entries
}

func buildSample(t *testing.T, outDir string) (*Artifact, Descriptor, []string) {
	t.Helper()
	root := sampleTree(t)
	d, err := Default().Variant("googlecloud")
	require.NoError(t, err)
	files, err := ResolveFiles(root, d)
	require.NoError(t, err)

	artifact, err := Build(context.Background(), root, d, files, outDir)
	require.NoError(t, err)
	return artifact, d, files
}

func TestBuild(t *testing.T) {
	require := require.New(t)

	outDir := filepath.Join(t.TempDir(), "pkg")
	artifact, d, files := buildSample(t, outDir)
	require.Equal(filepath.Join(outDir, "googlecloud-1.0.0.gem"), artifact.Path)
	require.Len(artifact.SHA256, 64)

	info, err := os.Stat(artifact.Path)
	require.NoError(err)
	require.Equal(info.Size(), artifact.Size)

	entries := readGem(t, artifact.Path)
	require.Len(entries, len(files)+1)
	require.Equal("module GCloud; end\n", entries["data/lib/gcloud.rb"])

	var meta Metadata
	require.NoError(json.Unmarshal([]byte(entries[MetadataFileName]), &meta))
	require.Equal(d.Name, meta.Name)
	require.Equal(d.Version, meta.Version)
	require.Equal(files, meta.Files)
}

func TestBuildIsReproducible(t *testing.T) {
	require := require.New(t)

	first, _, _ := buildSample(t, t.TempDir())
	second, _, _ := buildSample(t, t.TempDir())
	require.Equal(first.SHA256, second.SHA256)
}

func TestBuildRejectsInvalidDescriptor(t *testing.T) {
	require := require.New(t)

	outDir := t.TempDir()
	_, err := Build(context.Background(), t.TempDir(), Descriptor{Name: "x"}, nil, outDir)
	require.ErrorContains(err, "invalid descriptor")

	d, err := Default().Variant("gcloud")
	require.NoError(err)
	_, err = Build(context.Background(), t.TempDir(), d, []string{"missing.rb"}, outDir)
	require.ErrorContains(err, "failed to add missing.rb")
	require.NoFileExists(filepath.Join(outDir, d.GemFileName()))
}

func TestRenderGemspec(t *testing.T) {
	require := require.New(t)

	d, err := Default().Variant("gcloud")
	require.NoError(err)
	d.Summary = "it's quoted"

	text, err := RenderGemspec(d, []string{"lib/b.rb", "bin/gcloud"})
	require.NoError(err)
	require.Contains(text, "s.name        = 'gcloud'")
	require.Contains(text, "s.version     = '1.0.0'")
	require.Contains(text, `s.summary     = 'it\'s quoted'`)
	require.Contains(text, "s.authors     = ['Riccardo Carlesso']")
	require.Contains(text, "s.executables = ['gcloud']")
	require.Contains(text, "s.files       = [\n    'bin/gcloud',\n    'lib/b.rb'\n  ]")
	require.NotContains(text, "signing_key")

	d.Signed = true
	text, err = RenderGemspec(d, nil)
	require.NoError(err)
	require.Contains(text, "s.files       = []")
	require.Contains(text, "signing_key")

	path, err := WriteGemspec(t.TempDir(), d, nil)
	require.NoError(err)
	require.True(strings.HasSuffix(path, "gcloud.gemspec"))
}

func TestRelease(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	artifact, _, _ := buildSample(t, t.TempDir())
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(err)

	key, err := Release(ctx, store, artifact, "", ReleaseOptions{})
	require.NoError(err)
	require.Equal("googlecloud-1.0.0.gem", key)

	obj, err := store.Stat(ctx, key)
	require.NoError(err)
	require.Equal(artifact.SHA256, obj.Metadata["sha256"])
	require.Equal(artifact.Size, obj.Size)

	// identical bytes are accepted again
	_, err = Release(ctx, store, artifact, key, ReleaseOptions{})
	require.NoError(err)

	changed := *artifact
	changed.SHA256 = strings.Repeat("0", 64)
	_, err = Release(ctx, store, &changed, key, ReleaseOptions{})
	require.ErrorIs(err, ErrAlreadyReleased)

	_, err = Release(ctx, store, &changed, key, ReleaseOptions{Overwrite: true})
	require.NoError(err)
	obj, err = store.Stat(ctx, key)
	require.NoError(err)
	require.Equal(changed.SHA256, obj.Metadata["sha256"])
}
