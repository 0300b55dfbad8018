// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute_test

import (
	"context"
	"testing"
	"time"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/compute/computetest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func zonedService() *computetest.Service {
	svc := computetest.New("p", "v1beta14")
	svc.AddZone("zone-a", nil)
	svc.AddZone("zone-b", nil)
	svc.Add(compute.Instances, "zone-b", compute.Resource{"name": "vm-1"})
	svc.Add(compute.Instances, "zone-a", compute.Resource{"name": "dup"})
	svc.Add(compute.Instances, "zone-b", compute.Resource{"name": "dup"})
	return svc
}

func TestZoneForResource(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	svc := zonedService()

	zone, err := compute.ZoneForResource(ctx, svc, compute.Instances, "projects/p/zones/zone-x/instances/vm-1", "", true, nil)
	require.NoError(err)
	require.Equal("zone-x", zone)

	zone, err = compute.ZoneForResource(ctx, svc, compute.Instances, "vm-1", "zone-a", true, nil)
	require.NoError(err)
	require.Equal("zone-a", zone)

	zone, err = compute.ZoneForResource(ctx, svc, compute.Operations, "op", "global", true, nil)
	require.NoError(err)
	require.Equal("", zone)

	core, logs := observer.New(zap.InfoLevel)
	zone, err = compute.ZoneForResource(ctx, svc, compute.Instances, "vm-1", "", true, zap.New(core))
	require.NoError(err)
	require.Equal("zone-b", zone)
	require.Len(logs.All(), 2)
	require.Equal(`Zone for "vm-1" detected as "zone-b".`, logs.All()[0].Message)
}

func TestZoneForResourceAmbiguous(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	svc := zonedService()

	_, err := compute.ZoneForResource(ctx, svc, compute.Instances, "dup", "", true, nil)
	require.EqualError(err, "Could not determine the zone of 'dup'.")

	_, err = compute.ZoneForResource(ctx, svc, compute.Instances, "missing", "", true, nil)
	require.Error(err)

	zone, err := compute.ZoneForResource(ctx, svc, compute.Instances, "missing", "", false, nil)
	require.NoError(err)
	require.Equal("", zone)
}

func TestCheckZone(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	svc := computetest.New("p", "v1beta14")
	svc.AddZone("zone-a", compute.Resource{
		"maintenanceWindows": []any{map[string]any{
			"beginTime": "2013-01-05T00:00:00Z",
			"endTime":   "2013-01-20T00:00:00Z",
		}},
	})

	core, logs := observer.New(zap.WarnLevel)
	now := time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
	zone, err := compute.CheckZone(ctx, svc, "zone-a", now, zap.New(core))
	require.NoError(err)
	require.Equal("zone-a", zone.Name())
	require.Equal("zone-a will become unavailable due to maintenance in 4 days.", logs.All()[0].Message)

	_, err = compute.CheckZone(ctx, svc, "zone-z", now, nil)
	require.Error(err)
}
