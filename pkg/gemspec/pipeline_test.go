// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T) (*Pipeline, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Pipeline{
		Root: sampleTree(t),
		Out:  ux.NewUserLogTo(nil, &out),
	}, &out
}

func TestPipelineManifestAndGemspec(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, out := newPipeline(t)
	require.NoError(p.Manifest(ctx))
	files, err := ReadManifest(p.Root)
	require.NoError(err)
	require.Contains(files, "Manifest")
	require.Contains(files, "bin/gcloud")
	require.Contains(out.String(), "files)")

	// later steps read the Manifest rather than the globs
	writeTree(t, p.Root, map[string]string{"lib/added-later.rb": ""})
	require.NoError(p.Gemspec(ctx))
	for _, name := range []string{"gcloud.gemspec", "googlecloud.gemspec"} {
		b, err := os.ReadFile(filepath.Join(p.Root, name))
		require.NoError(err)
		require.Contains(string(b), "'bin/gcloud'")
		require.NotContains(string(b), "added-later")
	}
}

func TestPipelineSelectedVariant(t *testing.T) {
	require := require.New(t)

	p, _ := newPipeline(t)
	p.Variants = []string{"googlecloud"}
	ds, err := p.Descriptors()
	require.NoError(err)
	require.Len(ds, 1)
	require.Equal("googlecloud", ds[0].Name)

	p.Variants = []string{"nope"}
	_, err = p.Descriptors()
	require.ErrorIs(err, ErrUnknownVariant)
}

func TestPipelineInvalidDescriptor(t *testing.T) {
	require := require.New(t)

	p, _ := newPipeline(t)
	writeTree(t, p.Root, map[string]string{
		"gemspec.yaml": "version: not-a-version\nauthor: x\nemail: x@example.com\nfiles: [lib/**]\nvariants:\n  - name: gcloud\n",
	})
	_, err := p.Descriptors()
	require.ErrorContains(err, "descriptor gcloud")
	require.ErrorContains(err, "invalid version")
}

func TestPipelineReleaseAndClean(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, out := newPipeline(t)
	require.ErrorIs(p.Release(ctx), ErrNoReleaseURI)

	bucket := t.TempDir()
	p.ReleaseURI = "file://" + bucket
	require.NoError(p.Release(ctx))
	require.Contains(out.String(), "Released gcloud-1.0.0.gem to file://"+bucket+"/gcloud-1.0.0.gem")

	store, err := storage.NewLocalStore(bucket)
	require.NoError(err)
	objects, err := store.List(ctx, "")
	require.NoError(err)
	require.Len(objects, 2)

	released, err := p.Releases(ctx)
	require.NoError(err)
	require.Len(released, 2)
	require.Equal("gcloud-1.0.0.gem", released[0].Key)

	require.NoError(p.Gemspec(ctx))
	require.FileExists(filepath.Join(p.Root, "pkg", "googlecloud-1.0.0.gem"))
	require.FileExists(filepath.Join(p.Root, "gcloud.gemspec"))
	require.NoError(p.Clean(ctx))
	require.NoDirExists(filepath.Join(p.Root, "pkg"))
	require.NoFileExists(filepath.Join(p.Root, "gcloud.gemspec"))
	require.NoFileExists(filepath.Join(p.Root, "googlecloud.gemspec"))
	require.FileExists(filepath.Join(p.Root, "lib", "gcloud.rb"))

	// a second clean has nothing left to remove
	require.NoError(p.Clean(ctx))
}

func TestPipelineManifestCoversEveryVariant(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, _ := newPipeline(t)
	writeTree(t, p.Root, map[string]string{
		"gemspec.yaml": `version: 1.0.0
author: x
email: x@example.com
files: [bin/*, lib/**, Manifest]
variants:
  - name: gcloud
  - name: googlecloud
    files: [bin/*, packages/**, Manifest]
`,
	})
	require.NoError(p.Manifest(ctx))
	files, err := ReadManifest(p.Root)
	require.NoError(err)
	require.Contains(files, "lib/gcloud.rb")
	require.Contains(files, "packages/gcutil-1.7.1/gcutil")

	require.NoError(p.Gemspec(ctx))
	b, err := os.ReadFile(filepath.Join(p.Root, "gcloud.gemspec"))
	require.NoError(err)
	require.Contains(string(b), "'lib/gcloud.rb'")
	require.NotContains(string(b), "packages/")

	b, err = os.ReadFile(filepath.Join(p.Root, "googlecloud.gemspec"))
	require.NoError(err)
	require.Contains(string(b), "'packages/gcutil-1.7.1/gcutil'")
	require.NotContains(string(b), "lib/gcloud.rb")
}

func TestPipelineCleanRefusesSources(t *testing.T) {
	require := require.New(t)

	p, _ := newPipeline(t)
	p.OutDir = filepath.Join(p.Root, "lib")
	require.ErrorContains(p.Clean(context.Background()), "protected")
	require.DirExists(filepath.Join(p.Root, "lib"))
}
