// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package globalconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadGlobalConfig(t *testing.T) {
	require := require.New(t)
	ClearCache()
	t.Cleanup(ClearCache)

	dir := t.TempDir()
	config, err := LoadGlobalConfig(dir)
	require.NoError(err)
	require.Nil(config)

	in := DefaultGlobalConfig()
	in.Compute.Project = "my-project"
	require.NoError(SaveGlobalConfig(dir, &in))

	ClearCache()
	out, err := LoadGlobalConfig(dir)
	require.NoError(err)
	require.Equal("my-project", out.Compute.Project)
}

func TestFindProjectRoot(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(os.MkdirAll(nested, 0o755))

	_, err := FindProjectRoot(nested)
	require.ErrorIs(err, os.ErrNotExist)

	require.NoError(SaveProjectConfig(root, &ProjectConfig{}))
	found, err := FindProjectRoot(nested)
	require.NoError(err)
	require.Equal(root, found)
}

func TestRememberFlags(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	require.NoError(RememberFlags(root, "proj", "us-central1-a"))

	config, dir, err := LoadProjectConfig(root)
	require.NoError(err)
	require.Equal(root, dir)
	require.Equal(FlagsCache{Project: "proj", Zone: "us-central1-a"}, config.Cache)

	nested := filepath.Join(root, "sub")
	require.NoError(os.MkdirAll(nested, 0o755))
	require.NoError(RememberFlags(nested, "proj2", ""))
	config, dir, err = LoadProjectConfig(nested)
	require.NoError(err)
	require.Equal(root, dir)
	require.Equal("proj2", config.Cache.Project)
	require.NoFileExists(filepath.Join(nested, ProjectConfigFile))
}
