// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute_test

import (
	"context"
	"testing"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/compute/computetest"
	"github.com/stretchr/testify/require"
)

func TestListAllPages(t *testing.T) {
	require := require.New(t)
	svc := computetest.New("p", "v1beta14")
	for _, name := range []string{"k1", "k2", "k3", "k4", "k5"} {
		svc.Add(compute.Kernels, "", compute.Resource{"name": name})
	}

	res, err := compute.ListAll(context.Background(), svc, compute.Kernels, "", compute.ListOptions{})
	require.NoError(err)
	require.Equal([]string{"k1", "k2", "k3", "k4", "k5"}, compute.Names(res.Items()))
	require.Equal("compute#kernelList", res.Kind())

	res, err = compute.ListAll(context.Background(), svc, compute.Kernels, "", compute.ListOptions{MaxResults: 2})
	require.NoError(err)
	require.Equal([]string{"k1", "k2"}, compute.Names(res.Items()))

	names, err := compute.ListNames(context.Background(), svc, compute.Kernels, "",
		compute.ListOptions{Filter: compute.RegexesToFilterExpression([]string{"k[24]"}, "eq")})
	require.NoError(err)
	require.Equal([]string{"k2", "k4"}, names)
}

func TestListCollectionAcrossZones(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	svc := computetest.New("p", "v1beta14")
	svc.AddZone("zone-a", nil)
	svc.AddZone("zone-b", nil)
	svc.Add(compute.Operations, "", compute.Resource{"name": "op-global"})
	svc.Add(compute.Operations, "zone-a", compute.Resource{"name": "op-a"})
	svc.Add(compute.Operations, "zone-b", compute.Resource{"name": "op-b"})

	spec := compute.ListSpec{Collection: compute.Operations, GlobalLevel: true, ZoneLevel: true}

	res, err := compute.ListCollection(ctx, svc, spec, "", compute.ListOptions{})
	require.NoError(err)
	require.Equal([]string{"op-global", "op-a", "op-b"}, compute.Names(res.Items()))

	res, err = compute.ListCollection(ctx, svc, spec, "global", compute.ListOptions{})
	require.NoError(err)
	require.Equal([]string{"op-global"}, compute.Names(res.Items()))

	res, err = compute.ListCollection(ctx, svc, spec, "zone-b", compute.ListOptions{})
	require.NoError(err)
	require.Equal([]string{"op-b"}, compute.Names(res.Items()))
}
