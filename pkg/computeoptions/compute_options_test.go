// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package computeoptions

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/compute/computetest"
	"github.com/palladius/gcloud/pkg/config"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, v *viper.Viper) *application.GCloud {
	t.Helper()
	globalconfig.ClearCache()
	t.Cleanup(globalconfig.ClearCache)
	app := application.New()
	app.Setup(filepath.Join(t.TempDir(), ".gcloud"), zap.NewNop(), config.NewWith(v), nil, nil)
	app.SetWorkDir(t.TempDir())
	return app
}

func parsedCmd(t *testing.T, f *ComputeFlags, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddComputeFlagsToCmd(cmd, f)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestValidate(t *testing.T) {
	valid := func() ComputeFlags {
		return ComputeFlags{
			ServiceVersion:       constants.DefaultServiceVersion,
			Format:               compute.FormatTable,
			LongValues:           compute.LongValuesElided,
			SleepBetweenPolls:    constants.DefaultSleepBetweenPolls,
			MaxWaitTime:          constants.DefaultMaxWaitTime,
			ConcurrentOperations: constants.DefaultConcurrentOperations,
		}
	}
	tests := []struct {
		name    string
		mutate  func(*ComputeFlags)
		wantErr string
	}{
		{name: "defaults", mutate: func(*ComputeFlags) {}},
		{name: "unknown version", mutate: func(f *ComputeFlags) { f.ServiceVersion = "v2" }, wantErr: "v2"},
		{name: "unknown format", mutate: func(f *ComputeFlags) { f.Format = "xml" }, wantErr: "format"},
		{name: "polls too fast", mutate: func(f *ComputeFlags) { f.SleepBetweenPolls = time.Millisecond }, wantErr: "sleep-between-polls"},
		{name: "wait too long", mutate: func(f *ComputeFlags) { f.MaxWaitTime = time.Hour }, wantErr: "max-wait-time"},
		{name: "no concurrency", mutate: func(f *ComputeFlags) { f.ConcurrentOperations = 0 }, wantErr: "concurrent-operations"},
		{name: "too much concurrency", mutate: func(f *ComputeFlags) { f.ConcurrentOperations = 21 }, wantErr: "concurrent-operations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolvePriority(t *testing.T) {
	require := require.New(t)
	v := viper.New()
	app := newTestApp(t, v)
	require.NoError(globalconfig.SaveGlobalConfig(app.GetBaseDir(), &globalconfig.GlobalConfig{
		Compute: globalconfig.ComputeConfig{Project: "from-config", Format: compute.FormatJSON},
	}))

	var f ComputeFlags
	resolved := Resolve(app, parsedCmd(t, &f), &f)
	require.Equal("from-config", resolved.Project)
	require.Equal(compute.FormatJSON, resolved.Format)
	require.Equal(constants.DefaultServiceVersion, resolved.ServiceVersion)

	v.Set(constants.ConfigProject, "from-env")
	resolved = Resolve(app, parsedCmd(t, &f), &f)
	require.Equal("from-env", resolved.Project)

	resolved = Resolve(app, parsedCmd(t, &f, "--project", "from-flag", "--format", "csv"), &f)
	require.Equal("from-flag", resolved.Project)
	require.Equal(compute.FormatCSV, resolved.Format)
}

func TestResolveZone(t *testing.T) {
	require := require.New(t)
	v := viper.New()
	app := newTestApp(t, v)
	cmd := &cobra.Command{Use: "test"}
	var zone string
	cmd.Flags().StringVar(&zone, "zone", "", "")

	require.Equal("", ResolveZone(app, cmd, "zone", zone))
	app.RememberFlags("p", "us-b")
	require.Equal("us-b", ResolveZone(app, cmd, "zone", zone))
	require.Equal("us-c", ResolveZone(app, cmd, "zone", "us-c"))
}

func TestSession(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t, viper.New())
	svc := computetest.New("p", "v1beta14")
	svc.Add(compute.Kernels, "", compute.Resource{"name": "k1", "description": "a kernel"})

	var out bytes.Buffer
	flags := ComputeFlags{Format: compute.FormatNames, Synchronous: false, ConcurrentOperations: 1}
	s := NewSessionWith(app, svc, flags, &out, io.Discard)
	require.Nil(s.Executor.Waiter)
	require.NotNil(s.Waiter)

	k, err := s.Service.Get(t.Context(), compute.Kernels, "", "k1")
	require.NoError(err)
	require.NoError(s.Printer.Print(k, compute.KernelView))
	require.Equal("k1\n", out.String())

	flags.Synchronous = true
	require.NotNil(NewSessionWith(app, svc, flags, &out, io.Discard).Executor.Waiter)
}

func TestListFlags(t *testing.T) {
	require := require.New(t)
	var f ListFlags
	cmd := &cobra.Command{Use: "list", RunE: func(*cobra.Command, []string) error { return nil }}
	AddListFlagsToCmd(cmd, &f, compute.KernelView)

	cmd.SetArgs([]string{"--max-results", "5"})
	require.NoError(cmd.Execute())
	require.Equal(compute.ListOptions{MaxResults: 5}, f.ListOptions())

	cmd.SetArgs([]string{"--sort-by", "-name", "--filter", "name eq k.*"})
	require.NoError(cmd.Execute())
	require.Equal(compute.ListOptions{Filter: "name eq k.*"}, f.ListOptions())
	require.Equal(compute.PrintListOptions{SortBy: "-name", MaxResults: 5}, f.PrintOptions())

	cmd.SetArgs([]string{"--sort-by", "cpus"})
	require.ErrorContains(cmd.Execute(), "invalid --sort-by")
}

func TestAddComputeFlagsDefaults(t *testing.T) {
	require := require.New(t)
	var f ComputeFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddComputeFlags(fs, &f)
	require.NoError(fs.Parse([]string{"--synchronous-mode=false", "--max-wait-time", "60s"}))

	require.Equal(constants.DefaultServiceVersion, f.ServiceVersion)
	require.Equal(constants.DefaultAPIHost, f.APIHost)
	require.Equal(compute.FormatTable, f.Format)
	require.False(f.Synchronous)
	require.Equal(time.Minute, f.MaxWaitTime)
	require.Equal(constants.DefaultConcurrentOperations, f.ConcurrentOperations)
	require.NoError(f.Validate())
}
