// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package instancecmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/compute/computetest"
	"github.com/palladius/gcloud/pkg/compute/move"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func quotas(limit float64) []any {
	var out []any
	for _, metric := range []string{move.MetricInstances, move.MetricCPUs, move.MetricDisks, move.MetricDisksTotalGB, move.MetricSnapshots} {
		out = append(out, map[string]any{"metric": metric, "limit": limit, "usage": float64(0)})
	}
	return out
}

func setup(t *testing.T) (*computetest.Service, *bytes.Buffer, string) {
	svc := computetest.New("p", "v1beta14")
	svc.ProjectResource["quotas"] = quotas(100)
	svc.AddZone("zone-a", nil)
	svc.AddZone("zone-b", compute.Resource{"quotas": quotas(100)})
	mt := svc.Add(compute.MachineTypes, "", compute.Resource{"name": "n1-standard-1", "guestCpus": float64(1)})
	disk := svc.Add(compute.Disks, "zone-a", compute.Resource{"name": "d1", "sizeGb": "10"})
	svc.Add(compute.Instances, "zone-a", compute.Resource{
		"name":        "web-1",
		"machineType": mt.SelfLink(),
		"disks":       []any{map[string]any{"type": "PERSISTENT", "source": disk.SelfLink()}},
	})
	svc.Add(compute.Instances, "zone-a", compute.Resource{"name": "db-1", "machineType": mt.SelfLink()})

	var out bytes.Buffer
	ux.Logger = ux.NewUserLogTo(nil, &out)
	t.Cleanup(func() { ux.Logger = nil })

	home := t.TempDir()
	testApp := application.New()
	testApp.Setup(filepath.Join(home, ".gcloud"), zap.NewNop(), nil, nil, nil)
	testApp.SetWorkDir("")
	app = testApp

	prev := newSession
	newSession = func(_ context.Context, a *application.GCloud, _ *cobra.Command, flags *computeoptions.ComputeFlags) (*computeoptions.Session, error) {
		resolved := *flags
		resolved.ConcurrentOperations = 2
		resolved.SleepBetweenPolls = time.Millisecond
		resolved.MaxWaitTime = time.Minute
		return computeoptions.NewSessionWith(a, svc, resolved, &out, io.Discard), nil
	}
	t.Cleanup(func() { newSession = prev })
	return svc, &out, home
}

func run(args ...string) error {
	cmd := NewCmd(app, &computeoptions.ComputeFlags{})
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestMove(t *testing.T) {
	require := require.New(t)
	svc, out, home := setup(t)

	require.NoError(run("move", "web-.*", "--source-zone", "zone-a", "--destination-zone", "zone-b", "--force"))
	require.Equal([]string{"db-1"}, svc.Names(compute.Instances, "zone-a"))
	require.Equal([]string{"web-1"}, svc.Names(compute.Instances, "zone-b"))
	require.Equal([]string{"d1"}, svc.Names(compute.Disks, "zone-b"))
	require.Empty(svc.Names(compute.Snapshots, ""))
	require.Contains(out.String(), "The move completed successfully.")

	entries, err := os.ReadDir(home)
	require.NoError(err)
	for _, e := range entries {
		require.NotContains(e.Name(), ".gcloud.move.")
	}
}

func TestMoveKeepSnapshots(t *testing.T) {
	require := require.New(t)
	svc, _, _ := setup(t)

	require.NoError(run("move", "web-1", "--source-zone", "zone-a", "--destination-zone", "zone-b", "-f", "--keep-snapshots"))
	require.Len(svc.Names(compute.Snapshots, ""), 1)
}

func TestMoveRequiresDestination(t *testing.T) {
	require := require.New(t)
	setup(t)

	err := run("move", "web-1", "--source-zone", "zone-a", "-f")
	require.ErrorContains(err, "--destination-zone")
}

func TestResumeMoveMissingLog(t *testing.T) {
	require := require.New(t)
	_, _, home := setup(t)

	err := run("resume-move", filepath.Join(home, "nope.log"), "-f")
	require.ErrorContains(err, "File not found")
}

func TestResumeMoveKeepLogFile(t *testing.T) {
	require := require.New(t)
	svc, out, home := setup(t)

	instance := svc.Lookup(compute.Instances, "zone-a", "db-1")
	logPath := filepath.Join(home, "move.log")
	require.NoError(move.WriteLog(logPath, &move.Log{
		Version:          "test",
		SrcZone:          "zone-a",
		DestZone:         "zone-b",
		Instances:        []compute.Resource{instance},
		SnapshotMappings: map[string]string{},
	}))

	require.NoError(run("resume-move", logPath, "-f", "--keep-log-file"))
	require.Equal([]string{"db-1"}, svc.Names(compute.Instances, "zone-b"))
	require.FileExists(logPath)
	require.Contains(out.String(), "Source zone is zone-a.")
}
