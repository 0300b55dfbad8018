// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPrinter(format, longValues string) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPrinter(&buf, format, longValues, "user", NewNamer("", "v1"), nil), &buf
}

func TestPresentElement(t *testing.T) {
	require := require.New(t)
	p, _ := newTestPrinter(FormatTable, LongValuesElided)

	require.Equal("user", p.present("https://www.googleapis.com/compute/v1/projects/user"))
	require.Equal("standard-2-cpu", p.present("projects/user/machine-types/standard-2-cpu"))
	require.Equal("foo/bar/baz", p.present("projects/user/shared-fate-zones/foo/bar/baz"))
	require.Equal("42", p.present(float64(42)))

	long := "I am the very model of a modern Major-General, I've information " +
		"vegetable, animal, and mineral, I know the kings of England, and I " +
		"quote the fights historical From Marathon to Waterloo in order categorical."
	require.Equal("I am the very model of a modern.. Waterloo in order categorical.", p.present(long))

	full, _ := newTestPrinter(FormatTable, LongValuesFull)
	require.Equal(long, full.present(long))
}

func TestFlatten(t *testing.T) {
	require := require.New(t)
	p, _ := newTestPrinter(FormatTable, LongValuesElided)

	obj := Resource{
		"name":  "op",
		"error": map[string]any{"errors": []any{map[string]any{"code": "A"}, map[string]any{"code": "B"}}},
		"alt":   "fallback",
	}
	row := p.Flatten(obj, []Field{
		F("name", "name"),
		F("error", "error.errors.code"),
		F("either", "missing", "alt"),
		F("none", "missing"),
	})
	require.Equal([]string{"op", "A,B", "fallback", ""}, row)
}

func TestPrintDetail(t *testing.T) {
	require := require.New(t)
	p, buf := newTestPrinter(FormatTable, LongValuesElided)

	kernel := Resource{
		"kind":              "compute#kernel",
		"name":              "gce-v20130522",
		"description":       "latest kernel",
		"creationTimestamp": "2013-05-22T00:00:00.000-07:00",
	}
	require.NoError(p.Print(kernel, KernelView))
	out := buf.String()
	require.Contains(out, "property")
	require.Contains(out, "creation-time")
	require.Contains(out, "gce-v20130522")
}

func TestPrintOperationErrors(t *testing.T) {
	require := require.New(t)
	p, buf := newTestPrinter(FormatTable, LongValuesElided)

	op := Resource{
		"kind":   "compute#operation",
		"name":   "operation-1",
		"status": StatusDone,
		"error": map[string]any{
			"errors": []any{map[string]any{"code": "QUOTA_EXCEEDED", "message": "Quota CPUS exceeded"}},
		},
	}
	require.NoError(p.Print(op, KernelView))
	out := buf.String()
	require.Contains(out, "operation-type")
	require.Contains(out, "QUOTA_EXCEEDED")
	require.Contains(out, "Quota CPUS exceeded")
}

func TestPrintBatchSplitsOperations(t *testing.T) {
	require := require.New(t)
	p, buf := newTestPrinter(FormatTable, LongValuesElided)

	list := MakeListResult([]Resource{
		{"kind": "compute#operation", "name": "operation-1", "status": StatusDone},
		{"kind": "compute#kernel", "name": "k1"},
	}, "operationList")
	require.NoError(p.Print(list, KernelView))
	out := buf.String()
	require.Contains(out, "Table of resources:")
	require.Contains(out, "Table of operations:")
	require.Less(strings.Index(out, "k1"), strings.Index(out, "operation-1"))
}

func TestPrintList(t *testing.T) {
	require := require.New(t)

	list := Resource{
		"kind": "compute#kernelList",
		"items": []any{
			map[string]any{"name": "b", "description": "second"},
			map[string]any{"name": "c", "description": "third"},
			map[string]any{"name": "a", "description": "first"},
		},
	}

	p, buf := newTestPrinter(FormatCSV, LongValuesElided)
	require.NoError(p.PrintList(list, KernelView, PrintListOptions{}))
	require.Equal("name,description\na,first\nb,second\nc,third\n", buf.String())

	p, buf = newTestPrinter(FormatCSV, LongValuesElided)
	require.NoError(p.PrintList(list, KernelView, PrintListOptions{SortBy: "-name", MaxResults: 2}))
	require.Equal("name,description\nc,third\nb,second\n", buf.String())

	p, buf = newTestPrinter(FormatCSV, LongValuesElided)
	require.NoError(p.PrintList(list, KernelView, PrintListOptions{MaxResults: 2, FetchAll: true}))
	require.Equal(4, strings.Count(buf.String(), "\n"))

	p, buf = newTestPrinter(FormatNames, LongValuesElided)
	require.NoError(p.PrintList(list, KernelView, PrintListOptions{}))
	require.Equal("b\nc\na\n", buf.String())
}

func TestPrintJSON(t *testing.T) {
	require := require.New(t)
	p, buf := newTestPrinter(FormatJSON, LongValuesElided)

	require.NoError(p.Print(Resource{"name": "k", "kind": "compute#kernel"}, KernelView))
	require.Equal("{\n  \"kind\": \"compute#kernel\",\n  \"name\": \"k\"\n}\n", buf.String())
}

func TestSortFields(t *testing.T) {
	require := require.New(t)
	require.Equal([]string{"name", "-name", "description", "-description"}, KernelView.SortFields())
}
