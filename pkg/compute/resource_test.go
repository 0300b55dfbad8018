// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResourceAccessors(t *testing.T) {
	require := require.New(t)

	r := Resource{
		"kind":      "compute#machineType",
		"name":      "n1-standard-1",
		"guestCpus": float64(1),
		"sizeGb":    "10",
		"ephemeralDisks": []any{
			map[string]any{"diskGb": float64(420)},
		},
	}
	require.Equal("n1-standard-1", r.Name())
	require.Equal("1", r.Field("guestCpus"))
	require.Equal("", r.Field("missing"))
	require.Equal(float64(10), r.Float("sizeGb"))
	require.Equal(float64(1), r.Float("guestCpus"))
	require.Len(r.Maps("ephemeralDisks"), 1)
	require.False(r.IsOperation())
	require.False(r.IsList())

	clone := r.Clone()
	clone["name"] = "other"
	require.Equal("n1-standard-1", r.Name())
}

func TestErrorInResult(t *testing.T) {
	require := require.New(t)

	failed := Resource{
		"kind": "compute#operation",
		"error": map[string]any{
			"errors": []any{map[string]any{"code": "QUOTA_EXCEEDED", "message": "no"}},
		},
	}
	ok := Resource{"kind": "compute#operation", "status": StatusDone}

	require.True(ErrorInResult(failed, true))
	require.False(ErrorInResult(failed, false))
	require.False(ErrorInResult(ok, true))
	require.True(ErrorInResult(MakeListResult([]Resource{ok, failed}, "operationList"), true))
	require.Equal([]OperationError{{Code: "QUOTA_EXCEEDED", Message: "no"}}, failed.Errors())
	require.True(failed.HasErrorField())
}

func TestPartitionResults(t *testing.T) {
	require := require.New(t)

	list := MakeListResult([]Resource{
		{"kind": "compute#operation", "name": "op"},
		{"kind": "compute#instance", "name": "vm"},
	}, "operationList")

	require.True(list.IsList())
	require.Contains(list.Field("note"), "multiple API calls")
	resources, ops := PartitionResults(list)
	require.Equal([]string{"vm"}, Names(resources))
	require.Equal([]string{"op"}, Names(ops))
}
