// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"

	"github.com/palladius/gcloud/pkg/constants"
)

type ListOptions struct {
	// MaxResults of zero means unbounded.
	MaxResults int
	Filter     string
}

func newList(kind string, items []Resource) Resource {
	anyItems := make([]any, len(items))
	for i, item := range items {
		anyItems[i] = map[string]any(item)
	}
	return Resource{"kind": kind, "items": anyItems}
}

// ListAll pages through a collection and truncates to MaxResults.
func ListAll(ctx context.Context, svc Service, coll Collection, zone string, opts ListOptions) (Resource, error) {
	page := PageOptions{MaxResults: opts.MaxResults, Filter: opts.Filter}
	var (
		kind  string
		items []Resource
	)
	for {
		res, err := svc.List(ctx, coll, zone, page)
		if err != nil {
			return nil, err
		}
		kind = res.Kind()
		items = append(items, res.Items()...)

		next := res.Field("nextPageToken")
		if next == "" {
			break
		}
		page.PageToken = next
	}
	if opts.MaxResults > 0 && len(items) > opts.MaxResults {
		items = items[:opts.MaxResults]
	}
	return newList(kind, items), nil
}

// ListNames is ListAll returning only resource names.
func ListNames(ctx context.Context, svc Service, coll Collection, zone string, opts ListOptions) ([]string, error) {
	res, err := ListAll(ctx, svc, coll, zone, opts)
	if err != nil {
		return nil, err
	}
	return Names(res.Items()), nil
}

// ZoneNames lists every zone available to the project.
func ZoneNames(ctx context.Context, svc Service) ([]string, error) {
	return ListNames(ctx, svc, Zones, "", ListOptions{})
}

// ListSpec describes where a listable collection lives.
type ListSpec struct {
	Collection  Collection
	GlobalLevel bool
	ZoneLevel   bool
}

// ListCollection lists a collection across the namespaces selected by
// zoneFlag. For zone-level collections an empty flag lists the global
// namespace (when there is one) plus every zone, and "global" lists only
// the global namespace.
func ListCollection(ctx context.Context, svc Service, spec ListSpec, zoneFlag string, opts ListOptions) (Resource, error) {
	scoped, err := AtLeast(svc.Namer().Version, "v1beta14")
	if err != nil {
		return nil, err
	}
	if !scoped || !spec.ZoneLevel {
		return ListAll(ctx, svc, spec.Collection, "", opts)
	}

	var zones []string
	switch {
	case zoneFlag != "" && spec.GlobalLevel && zoneFlag == constants.GlobalZoneName:
		zones = []string{""}
	case zoneFlag != "":
		zones = []string{DenormalizeResourceName(zoneFlag)}
	default:
		if spec.GlobalLevel {
			zones = append(zones, "")
		}
		all, err := ZoneNames(ctx, svc)
		if err != nil {
			return nil, err
		}
		zones = append(zones, all...)
	}

	var (
		kind  string
		items []Resource
	)
	for _, zone := range zones {
		sub, err := ListAll(ctx, svc, spec.Collection, zone, opts)
		if err != nil {
			return nil, err
		}
		kind = sub.Kind()
		items = append(items, sub.Items()...)
	}
	return newList(kind, items), nil
}
