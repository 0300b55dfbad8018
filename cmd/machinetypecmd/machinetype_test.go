// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package machinetypecmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/compute/computetest"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	svc := computetest.New("p", "v1beta14")
	for _, name := range []string{"n1-highmem-2", "n1-standard-2", "n1-highcpu-2", "n1-standard-1", "f1-micro"} {
		svc.Add(compute.MachineTypes, "", compute.Resource{"name": name, "guestCpus": float64(1)})
	}

	app = application.New()
	app.Log = zap.NewNop()

	var out bytes.Buffer
	prev := newSession
	newSession = func(_ context.Context, a *application.GCloud, _ *cobra.Command, flags *computeoptions.ComputeFlags) (*computeoptions.Session, error) {
		resolved := *flags
		resolved.Format = format
		resolved.LongValues = compute.LongValuesFull
		return computeoptions.NewSessionWith(a, svc, resolved, &out, io.Discard), nil
	}
	t.Cleanup(func() { newSession = prev })
	return &out
}

func run(args ...string) error {
	cmd := NewCmd(app, &computeoptions.ComputeFlags{})
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestListOrdersByFamily(t *testing.T) {
	require := require.New(t)
	out := setup(t, compute.FormatNames)

	require.NoError(run("list"))
	require.Equal([]string{"n1-standard-1", "n1-standard-2", "n1-highcpu-2", "n1-highmem-2", "f1-micro"},
		strings.Fields(out.String()))
}

func TestListSortBy(t *testing.T) {
	require := require.New(t)
	out := setup(t, compute.FormatTable)

	require.NoError(run("list", "--sort-by", "-name"))
	text := out.String()
	require.Less(strings.Index(text, "n1-standard-2"), strings.Index(text, "f1-micro"))
	require.Less(strings.Index(text, "n1-highmem-2"), strings.Index(text, "n1-highcpu-2"))
}

func TestGet(t *testing.T) {
	require := require.New(t)
	out := setup(t, compute.FormatJSON)

	require.NoError(run("get", "n1-standard-1"))
	require.Contains(out.String(), `"name": "n1-standard-1"`)

	require.ErrorContains(run("get", "n9-nope"), "was not found")
}
