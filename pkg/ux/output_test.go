// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserLogPlainWhenNotTerminal(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	ul := NewUserLogTo(nil, &buf)
	ul.GreenCheckmarkToUser("created %d disks", 2)
	ul.RedXToUser("failed")
	ul.PrintToUser("plain")

	require.Equal("✓ created 2 disks\n✗ failed\nplain\n", buf.String())
}

func TestRenderTableSparse(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(RenderTable(&buf, []string{"name", "status"}, [][]string{{"op-1", "DONE"}}, true))
	require.Contains(buf.String(), "name")
	require.Contains(buf.String(), "op-1")
	require.NotContains(buf.String(), "|")
}

func TestThousandSeparator(t *testing.T) {
	require := require.New(t)

	require.Equal("1,234,567", ConvertToStringWithThousandSeparator(1234567))
	require.Equal("12.5", ConvertToStringWithThousandSeparator(12.5))
}
