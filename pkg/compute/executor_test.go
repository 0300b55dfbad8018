// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/compute/computetest"
	"github.com/stretchr/testify/require"
)

func TestExecutorKeepsOrderAndCollectsErrors(t *testing.T) {
	require := require.New(t)

	var requests []compute.Request
	for i := 0; i < 6; i++ {
		requests = append(requests, func(context.Context) (compute.Resource, error) {
			if i == 3 {
				return nil, errors.New("boom")
			}
			time.Sleep(time.Duration(6-i) * time.Millisecond)
			return compute.Resource{"name": fmt.Sprintf("r%d", i)}, nil
		})
	}

	exec := &compute.Executor{Concurrency: 3}
	results, errs := exec.Execute(context.Background(), requests, "disks")
	require.Equal([]string{"r0", "r1", "r2", "r4", "r5"}, compute.Names(results))
	require.Len(errs, 1)
	require.EqualError(errs[0], "boom")
}

func TestExecutorWaitsForOperations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	svc := computetest.New("p", "v1beta14")
	svc.PendingPolls = 1

	waiter := compute.NewWaiter(svc, time.Millisecond, time.Minute, nil)
	exec := &compute.Executor{Concurrency: 2, Waiter: waiter}
	requests := []compute.Request{
		func(ctx context.Context) (compute.Resource, error) {
			return svc.Insert(ctx, compute.Disks, "zone-a", compute.Resource{"name": "d1"})
		},
		func(ctx context.Context) (compute.Resource, error) {
			return svc.Insert(ctx, compute.Disks, "zone-a", compute.Resource{"name": "d2"})
		},
	}
	results, errs := exec.Execute(ctx, requests, "disks")
	require.Empty(errs)
	require.Len(results, 4)
	require.True(results[0].IsOperation())
	require.Equal(compute.StatusDone, results[0].Status())
	require.Equal("d1", results[1].Name())
	require.Equal("d2", results[3].Name())
}
