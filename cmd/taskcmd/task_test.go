// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package taskcmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/config"
	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/palladius/gcloud/pkg/tasks"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tasksFile = `aliases:
  hello:
    description: Say hello
    steps:
      - run: echo hello from task
  broken:
    steps:
      - echo: before
      - run: exit 3
      - echo: never printed
`

func setup(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	globalconfig.ClearCache()
	t.Cleanup(globalconfig.ClearCache)

	root := t.TempDir()
	files := map[string]string{
		"tasks.yaml":    tasksFile,
		"bin/gcloud":    "#!/bin/sh\n",
		"lib/gcloud.rb": "",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	var out bytes.Buffer
	ux.Logger = ux.NewUserLogTo(nil, &out)
	t.Cleanup(func() { ux.Logger = nil })

	testApp := application.New()
	testApp.Setup(filepath.Join(t.TempDir(), ".gcloud"), zap.NewNop(), config.NewWith(viper.New()), nil, application.NewDownloader())
	testApp.SetWorkDir(root)
	app = testApp
	return root, &out
}

func run(args ...string) error {
	cmd := NewCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestRunUserAlias(t *testing.T) {
	require := require.New(t)
	root, out := setup(t)

	require.NoError(run("run", "hello", "--root", root))
	require.Contains(out.String(), "hello from task")
}

func TestRunFailingAlias(t *testing.T) {
	require := require.New(t)
	root, out := setup(t)

	err := run("run", "broken", "--root", root)
	var stepErr *tasks.StepError
	require.ErrorAs(err, &stepErr)
	require.Equal("broken", stepErr.Alias)
	require.Equal(3, tasks.ExitCode(err))
	require.Contains(out.String(), "before")
	require.NotContains(out.String(), "never printed")
}

func TestRunUnknown(t *testing.T) {
	require := require.New(t)
	root, _ := setup(t)

	require.ErrorIs(run("run", "nope", "--root", root), tasks.ErrUnknownTask)
}

func TestRunPrepdeploy(t *testing.T) {
	require := require.New(t)
	root, _ := setup(t)

	require.NoError(run("run", "prepdeploy", "--root", root))
	require.FileExists(filepath.Join(root, "Manifest"))
	require.FileExists(filepath.Join(root, "gcloud.gemspec"))
	require.FileExists(filepath.Join(root, "googlecloud.gemspec"))
}

func TestRunGemdeploy(t *testing.T) {
	require := require.New(t)
	root, out := setup(t)
	dest := t.TempDir()

	require.NoError(run("run", "gemdeploy", "--root", root, "--release-to", "file://"+dest))
	require.FileExists(filepath.Join(dest, "gcloud-1.0.0.gem"))
	require.Contains(out.String(), "gem deployed")
}

func TestList(t *testing.T) {
	require := require.New(t)
	root, out := setup(t)

	require.NoError(run("list", "--root", root))
	for _, name := range []string{"gemdeploy", "hello", "install", "prepdeploy", "test", "broken"} {
		require.Contains(out.String(), name)
	}
	require.Contains(out.String(), "https://raw.githubusercontent.com/palladius/gcloud/master/install.sh")
}

func TestAliasCmds(t *testing.T) {
	require := require.New(t)
	setup(t)

	var names []string
	for _, cmd := range NewAliasCmds(app) {
		names = append(names, cmd.Name())
	}
	require.Equal([]string{"install", "test", "prepdeploy", "gemdeploy"}, names)
}
