// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// NewTable creates a table writing to w. Sparse tables drop borders and
// column separators.
func NewTable(w io.Writer, sparse bool) *tablewriter.Table {
	opts := []tablewriter.Option{
		tablewriter.WithHeaderAutoFormat(tw.Off),
	}
	if sparse {
		opts = append(opts, tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off, BetweenRows: tw.Off},
				Lines:      tw.Lines{ShowHeaderLine: tw.Off},
			},
		}))
	}
	table := tablewriter.NewTable(w, opts...)
	table.Configure(func(config *tablewriter.Config) {
		config.Row.Alignment.Global = tw.AlignLeft
		config.Header.Alignment.Global = tw.AlignLeft
	})
	return table
}

// RenderTable writes a table with the given header and rows.
func RenderTable(w io.Writer, header []string, rows [][]string, sparse bool) error {
	table := NewTable(w, sparse)
	anyHeader := make([]any, len(header))
	for i, h := range header {
		anyHeader[i] = h
	}
	table.Header(anyHeader...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
