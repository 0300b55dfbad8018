// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package move

import (
	"context"
	"fmt"
	"strings"

	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/ux"
)

const (
	MetricInstances    = "INSTANCES"
	MetricCPUs         = "CPUS"
	MetricDisks        = "DISKS"
	MetricDisksTotalGB = "DISKS_TOTAL_GB"
	MetricSnapshots    = "SNAPSHOTS"
)

var quotaMetrics = []string{MetricInstances, MetricCPUs, MetricDisks, MetricDisksTotalGB, MetricSnapshots}

// Quota maps a metric to an amount.
type Quota map[string]float64

func (q Quota) String() string {
	parts := make([]string, 0, len(q))
	for _, metric := range quotaMetrics {
		if v, ok := q[metric]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", metric, ux.ConvertToStringWithThousandSeparator(v)))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Mover) numCPUs(ctx context.Context, instances []compute.Resource) (float64, error) {
	machineTypes, err := compute.ListAll(ctx, m.Service, compute.MachineTypes, "", compute.ListOptions{})
	if err != nil {
		return 0, err
	}
	cpus := map[string]float64{}
	for _, mt := range machineTypes.Items() {
		cpus[mt.SelfLink()] = mt.Float("guestCpus")
	}
	total := 0.0
	for _, instance := range instances {
		n, ok := cpus[instance.Field("machineType")]
		if !ok {
			return 0, compute.NewCommandError("Unknown machine type %s for instance %s.",
				instance.Field("machineType"), instance.Name())
		}
		total += n
	}
	return total, nil
}

func (m *Mover) totalDisksSizeGB(ctx context.Context, diskNames []string, zone string) (float64, error) {
	wanted := toSet(diskNames)
	disks, err := compute.ListAll(ctx, m.Service, compute.Disks, zone, compute.ListOptions{})
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, d := range disks.Items() {
		if wanted[d.Name()] {
			total += d.Float("sizeGb")
		}
	}
	return total, nil
}

func (m *Mover) requirements(ctx context.Context, instances []compute.Resource, disks []string, srcZone string, snapshots int) (Quota, error) {
	cpus, err := m.numCPUs(ctx, instances)
	if err != nil {
		return nil, err
	}
	size, err := m.totalDisksSizeGB(ctx, disks, srcZone)
	if err != nil {
		return nil, err
	}
	return Quota{
		MetricInstances:    float64(len(instances)),
		MetricCPUs:         cpus,
		MetricDisks:        float64(len(disks)),
		MetricDisksTotalGB: size,
		MetricSnapshots:    float64(snapshots),
	}, nil
}

// AvailableQuota computes what is left for the move. Resources being moved
// are added back to the project numbers since they are deleted before
// being recreated; snapshots do not exist yet so they are not. Zone quotas
// cap the result.
func AvailableQuota(projectQuotas, zoneQuotas []compute.Resource, required Quota) Quota {
	available := Quota{}
	for _, q := range projectQuotas {
		metric := q.Field("metric")
		if _, ok := required[metric]; !ok {
			continue
		}
		available[metric] = q.Float("limit") - q.Float("usage")
		if metric != MetricSnapshots {
			available[metric] += required[metric]
		}
	}
	for _, q := range zoneQuotas {
		metric := q.Field("metric")
		if _, ok := required[metric]; !ok {
			continue
		}
		left := q.Float("limit") - q.Float("usage")
		if cur, ok := available[metric]; !ok || left < cur {
			available[metric] = left
		}
	}
	return available
}

func (m *Mover) checkQuotas(ctx context.Context, instances []compute.Resource, disks []string, srcZone, destZone string, snapshots int) error {
	m.Out.PrintToUser("Checking project and destination zone quotas...")

	zone, err := m.Service.Get(ctx, compute.Zones, "", destZone)
	if err != nil {
		return err
	}
	required, err := m.requirements(ctx, instances, disks, srcZone, snapshots)
	if err != nil {
		return err
	}
	available := AvailableQuota(m.project.Maps("quotas"), zone.Maps("quotas"), required)

	m.log().Debug("Required quota for move is: " + required.String())
	m.log().Debug("Available quota is: " + available.String())

	for _, metric := range quotaMetrics {
		if available[metric]-required[metric] < 0 {
			return compute.NewCommandError("You do not have enough quota for %s in %s or your project.", metric, destZone)
		}
	}
	return nil
}
