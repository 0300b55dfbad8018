// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package computeoptions

import (
	"fmt"
	"slices"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/spf13/cobra"
)

type ListFlags struct {
	SortBy     string
	MaxResults int
	Filter     string
	FetchAll   bool
}

func AddListFlagsToCmd(cmd *cobra.Command, f *ListFlags, view compute.View) {
	sortFields := view.SortFields()
	cmd.Flags().StringVar(&f.SortBy, "sort-by", "",
		fmt.Sprintf("sort output by the given column, a leading '-' sorts descending (one of %v)", sortFields))
	cmd.Flags().IntVar(&f.MaxResults, "max-results", constants.DefaultMaxResults, "maximum number of items to list")
	cmd.Flags().StringVar(&f.Filter, "filter", "", "filter expression, e.g. 'name eq my-.*'")
	cmd.Flags().BoolVar(&f.FetchAll, "fetch-all-pages", false, "fetch all pages on truncated results")

	existing := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if existing != nil {
			if err := existing(cmd, args); err != nil {
				return err
			}
		}
		if f.SortBy != "" && !slices.Contains(sortFields, f.SortBy) {
			return fmt.Errorf("invalid --sort-by %q: must be one of %v", f.SortBy, sortFields)
		}
		if f.MaxResults < 1 {
			return fmt.Errorf("--max-results must be at least 1")
		}
		return nil
	}
}

// ListOptions is what to request from the API: every page when sorting
// or fetching all, otherwise one page worth of results.
func (f *ListFlags) ListOptions() compute.ListOptions {
	opts := compute.ListOptions{Filter: f.Filter}
	if f.SortBy == "" && !f.FetchAll {
		opts.MaxResults = f.MaxResults
	}
	return opts
}

func (f *ListFlags) PrintOptions() compute.PrintListOptions {
	return compute.PrintListOptions{SortBy: f.SortBy, MaxResults: f.MaxResults, FetchAll: f.FetchAll}
}
