// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package move relocates instances and their persistent disks from one
// zone to another, keeping a log that allows a failed move to be resumed.
package move

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/prompts"
	"github.com/palladius/gcloud/pkg/ux"
	"go.uber.org/zap"
)

const diskTypePersistent = "PERSISTENT"

// Mover performs moves against a compute service. Executor must wait for
// operations so that each phase completes before the next one starts.
type Mover struct {
	Service  compute.Service
	Executor *compute.Executor
	Prompt   prompts.Prompter
	Out      *ux.UserLog
	Log      *zap.Logger
	Clock    compute.Clock
	Poll     time.Duration
	MaxWait  time.Duration

	Force         bool
	KeepSnapshots bool
	KeepLogFile   bool

	// LogPath returns where the move log is written.
	LogPath func(now time.Time) string

	project compute.Resource
}

func (m *Mover) log() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}

func (m *Mover) clock() compute.Clock {
	if m.Clock == nil {
		return compute.RealClock
	}
	return m.Clock
}

func (m *Mover) start(ctx context.Context) error {
	ok, err := compute.AtLeast(m.Service.Namer().Version, "v1beta14")
	if err != nil {
		return err
	}
	if !ok {
		return compute.NewCommandError("This command requires using API version v1beta14 or higher.")
	}
	m.project, err = m.Service.GetProject(ctx)
	return err
}

// MoveInstances moves the instances of srcZone whose names match any of
// regexes to destZone.
func (m *Mover) MoveInstances(ctx context.Context, srcZone, destZone string, regexes []string) error {
	switch {
	case srcZone == "":
		return compute.NewCommandError("You must specify a source zone through the --source-zone flag.")
	case destZone == "":
		return compute.NewCommandError("You must specify a destination zone through the --destination-zone flag.")
	case srcZone == destZone:
		return compute.NewCommandError("The destination and source zones cannot be equal.")
	case len(regexes) == 0:
		return compute.NewCommandError("You must specify at least one regex for instances to move.")
	}
	if err := m.start(ctx); err != nil {
		return err
	}

	destZone = compute.DenormalizeResourceName(destZone)
	m.Out.PrintToUser("Checking destination zone...")
	if _, err := m.Service.Get(ctx, compute.Zones, "", destZone); err != nil {
		return err
	}

	m.Out.PrintToUser("Retrieving instances in %s matching: %s...", srcZone, strings.Join(regexes, " "))
	match := compute.RegexesToFilterExpression(regexes, "eq")
	toMove, err := m.list(ctx, compute.Instances, srcZone, match)
	if err != nil {
		return err
	}
	inDest, err := m.list(ctx, compute.Instances, destZone, match)
	if err != nil {
		return err
	}
	if err := checkInstancePreconditions(toMove, inDest); err != nil {
		return err
	}

	toIgnore, err := m.list(ctx, compute.Instances, srcZone, compute.RegexesToFilterExpression(regexes, "ne"))
	if err != nil {
		return err
	}

	m.Out.PrintToUser("Checking disk preconditions...")
	disks := persistentDiskNames(toMove)
	if err := checkDiskPreconditions(toIgnore, disks); err != nil {
		return err
	}

	if err := m.checkQuotas(ctx, toMove, disks, srcZone, destZone, len(disks)); err != nil {
		return err
	}
	if err := m.confirm(toMove, nil, disks, destZone); err != nil {
		return err
	}

	logPath := m.logPath()
	mappings := snapshotNames(disks)
	m.Out.PrintToUser("If the move fails, you can re-attempt it using:")
	m.Out.PrintToUser("  gcloud instance resume-move %s", logPath)
	if err := WriteLog(logPath, &Log{
		Version:          constants.Version,
		DestZone:         destZone,
		SrcZone:          srcZone,
		Instances:        toMove,
		SnapshotMappings: mappings,
	}); err != nil {
		return fmt.Errorf("failed to write move log: %w", err)
	}

	if err := m.deleteInstances(ctx, toMove, srcZone); err != nil {
		return err
	}
	if err := m.createSnapshots(ctx, mappings, srcZone, destZone); err != nil {
		return err
	}
	if err := m.deleteDisks(ctx, disks, srcZone); err != nil {
		return err
	}
	if err := m.createDisksFromSnapshots(ctx, mappings, destZone); err != nil {
		return err
	}
	if err := m.createInstances(ctx, toMove, srcZone, destZone); err != nil {
		return err
	}
	if err := m.deleteSnapshots(ctx, mapValues(mappings)); err != nil {
		return err
	}

	if err := os.Remove(logPath); err != nil {
		return err
	}
	m.Out.PrintToUser("The move completed successfully.")
	return nil
}

// ResumeMove re-attempts the move recorded in the log at logPath, skipping
// whatever the earlier attempt already completed.
func (m *Mover) ResumeMove(ctx context.Context, logPath string) error {
	if err := m.start(ctx); err != nil {
		return err
	}
	if _, err := os.Stat(logPath); errors.Is(err, os.ErrNotExist) {
		return compute.NewCommandError("File not found: %s", logPath)
	}

	m.Out.PrintToUser("Parsing log file...")
	l, err := ReadLog(logPath)
	if err != nil {
		return err
	}
	srcZone, destZone := l.SrcZone, l.DestZone
	m.Out.PrintToUser("Source zone is %s.", srcZone)
	m.Out.PrintToUser("Destination zone is %s.", destZone)

	inDest, err := m.list(ctx, compute.Instances, destZone, "")
	if err != nil {
		return err
	}
	inSource, err := m.list(ctx, compute.Instances, srcZone, "")
	if err != nil {
		return err
	}

	// two resources may describe the same instance, so compare by name
	toIgnore := intersect(l.Instances, inDest)
	toMove := subtract(l.Instances, inDest)
	if len(toMove) == 0 {
		return compute.NewCommandError("All instances are already in %s.", destZone)
	}

	disksInDest, err := m.names(ctx, compute.Disks, destZone)
	if err != nil {
		return err
	}
	disksInSrc, err := m.names(ctx, compute.Disks, srcZone)
	if err != nil {
		return err
	}
	var disks []string
	for _, disk := range sortedKeys(l.SnapshotMappings) {
		if disksInSrc[disk] {
			disks = append(disks, disk)
		}
	}
	toDelete := intersect(toMove, inSource)

	pending := map[string]string{}
	if len(disks) > 0 {
		current, err := m.names(ctx, compute.Snapshots, "")
		if err != nil {
			return err
		}
		moving := toSet(disks)
		for disk, snapshot := range l.SnapshotMappings {
			if moving[disk] && !current[snapshot] {
				pending[disk] = snapshot
			}
		}
	}

	if err := m.checkQuotas(ctx, toMove, disks, srcZone, destZone, len(pending)); err != nil {
		return err
	}
	if err := m.confirm(toMove, toIgnore, disks, destZone); err != nil {
		return err
	}

	if err := m.deleteInstances(ctx, toDelete, srcZone); err != nil {
		return err
	}
	if err := m.createSnapshots(ctx, pending, srcZone, destZone); err != nil {
		return err
	}
	if err := m.deleteDisks(ctx, disks, srcZone); err != nil {
		return err
	}

	snapshots, err := m.names(ctx, compute.Snapshots, "")
	if err != nil {
		return err
	}
	toCreate := map[string]string{}
	for disk, snapshot := range l.SnapshotMappings {
		if snapshots[snapshot] && !disksInDest[disk] {
			toCreate[disk] = snapshot
		}
	}
	if err := m.createDisksFromSnapshots(ctx, toCreate, destZone); err != nil {
		return err
	}
	if err := m.createInstances(ctx, toMove, srcZone, destZone); err != nil {
		return err
	}
	if err := m.deleteSnapshots(ctx, mapValues(toCreate)); err != nil {
		return err
	}

	if !m.KeepLogFile {
		if err := os.Remove(logPath); err != nil {
			return err
		}
	}
	m.Out.PrintToUser("The move completed successfully.")
	return nil
}

func (m *Mover) logPath() string {
	now := m.clock().Now().UTC()
	if m.LogPath != nil {
		return m.LogPath(now)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return home + string(os.PathSeparator) + constants.MoveLogPrefix + now.Format(constants.MoveLogTimeFormat)
}

func (m *Mover) list(ctx context.Context, coll compute.Collection, zone, filter string) ([]compute.Resource, error) {
	res, err := compute.ListAll(ctx, m.Service, coll, zone, compute.ListOptions{Filter: filter})
	if err != nil {
		return nil, err
	}
	return res.Items(), nil
}

func (m *Mover) names(ctx context.Context, coll compute.Collection, zone string) (map[string]bool, error) {
	names, err := compute.ListNames(ctx, m.Service, coll, zone, compute.ListOptions{})
	if err != nil {
		return nil, err
	}
	return toSet(names), nil
}

func (m *Mover) confirm(toMove, toIgnore []compute.Resource, disks []string, destZone string) error {
	if len(toIgnore) > 0 {
		m.Out.PrintToUser("These instances are already in %s and will not be moved:", destZone)
		m.Out.PrintToUser("%s", compute.ListStrings(compute.Names(toIgnore), "  "))
	}
	m.Out.PrintToUser("The following instances will be moved to %s:", destZone)
	m.Out.PrintToUser("%s", compute.ListStrings(compute.Names(toMove), "  "))
	if len(disks) > 0 {
		m.Out.PrintToUser("The following disks will be moved to %s:", destZone)
		m.Out.PrintToUser("%s", compute.ListStrings(disks, "  "))
	}

	if m.Force {
		return nil
	}
	yes, err := m.Prompt.CaptureYesNo("Proceed?")
	if err != nil {
		return err
	}
	if !yes {
		return compute.NewCommandError("Move aborted.")
	}
	return nil
}

// execute runs a phase and fails on request errors or failed operations.
func (m *Mover) execute(ctx context.Context, requests []compute.Request, collection, phase string) error {
	results, errs := m.Executor.Execute(ctx, requests, collection)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = compute.HTTPErrorMessage(err)
		}
		return compute.NewCommandError("Aborting due to errors while %s:\n%s", phase, compute.ListStrings(msgs, "  "))
	}
	return checkForErrorsInOps(compute.MakeListResult(results, "operationList"))
}

func checkForErrorsInOps(results compute.Resource) error {
	_, ops := compute.PartitionResults(results)
	var msgs []string
	for _, op := range ops {
		if errs := op.Errors(); len(errs) > 0 && errs[0].Message != "" {
			msgs = append(msgs, errs[0].Message)
		}
	}
	if len(msgs) > 0 {
		return compute.NewCommandError("Encountered errors:\n%s", compute.ListStrings(msgs, "  "))
	}
	return nil
}

func (m *Mover) deleteInstances(ctx context.Context, instances []compute.Resource, zone string) error {
	if len(instances) == 0 {
		return nil
	}
	m.Out.PrintToUser("Deleting instances...")
	var requests []compute.Request
	for _, instance := range instances {
		name := instance.Name()
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return m.Service.Delete(ctx, compute.Instances, zone, name)
		})
	}
	return m.execute(ctx, requests, compute.Instances.Name, "deleting instances")
}

// clearEphemeralIPs drops NAT IPs that are not reserved by the project.
func clearEphemeralIPs(instance compute.Resource, reserved map[string]bool) {
	for _, iface := range instance.Maps("networkInterfaces") {
		for _, config := range iface.Maps("accessConfigs") {
			if ip, ok := config["natIP"].(string); ok && !reserved[ip] {
				delete(config, "natIP")
			}
		}
	}
}

func (m *Mover) createInstances(ctx context.Context, instances []compute.Resource, srcZone, destZone string) error {
	if len(instances) == 0 {
		return nil
	}
	m.Out.PrintToUser("Recreating instances in %s...", destZone)

	reserved := map[string]bool{}
	if ips, ok := m.project["externalIpAddresses"].([]any); ok {
		for _, ip := range ips {
			if s, ok := ip.(string); ok {
				reserved[s] = true
			}
		}
	}

	namer := m.Service.Namer()
	var requests []compute.Request
	for _, original := range instances {
		instance := original.Clone()
		clearEphemeralIPs(instance, reserved)
		instance["zone"] = namer.NormalizeTopLevel(m.Service.Project(), "zones", destZone)
		for _, disk := range instance.Maps("disks") {
			if source, ok := disk["source"].(string); ok {
				disk["source"] = strings.ReplaceAll(source, "zones/"+srcZone, "zones/"+destZone)
			}
		}
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return m.Service.Insert(ctx, compute.Instances, destZone, instance)
		})
	}
	return m.execute(ctx, requests, compute.Instances.Name, "creating instances")
}

func (m *Mover) createSnapshots(ctx context.Context, mappings map[string]string, srcZone, destZone string) error {
	if len(mappings) == 0 {
		return nil
	}
	m.Out.PrintToUser("Snapshotting disks...")
	namer := m.Service.Namer()
	var requests []compute.Request
	for _, disk := range sortedKeys(mappings) {
		body := compute.Resource{
			"name":        mappings[disk],
			"sourceDisk":  namer.NormalizePerZone(m.Service.Project(), srcZone, "disks", disk),
			"description": fmt.Sprintf("Snapshot for moving disk %s from %s to %s.", disk, srcZone, destZone),
		}
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return m.Service.Insert(ctx, compute.Snapshots, "", body)
		})
	}
	if err := m.execute(ctx, requests, compute.Snapshots.Name, "creating snapshots"); err != nil {
		return err
	}
	return m.waitForSnapshots(ctx, mapValues(mappings))
}

func (m *Mover) waitForSnapshots(ctx context.Context, names []string) error {
	wanted := toSet(names)
	clock := m.clock()
	start := clock.Now()
	for {
		if clock.Now().Sub(start) > m.MaxWait {
			return compute.NewCommandError("Timeout reached while waiting for snapshots to be ready.")
		}
		snapshots, err := m.list(ctx, compute.Snapshots, "", "")
		if err != nil {
			return err
		}
		notReady := 0
		for _, s := range snapshots {
			if wanted[s.Name()] && s.Status() != compute.StatusReady {
				notReady++
			}
		}
		if notReady == 0 {
			return nil
		}
		m.log().Info(fmt.Sprintf("Waiting for snapshots to be READY. Sleeping for %gs", m.Poll.Seconds()))
		if err := clock.Sleep(ctx, m.Poll); err != nil {
			return err
		}
	}
}

func (m *Mover) deleteSnapshots(ctx context.Context, names []string) error {
	if len(names) == 0 || m.KeepSnapshots {
		return nil
	}
	m.Out.PrintToUser("Deleting snapshots...")
	var requests []compute.Request
	for _, name := range names {
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return m.Service.Delete(ctx, compute.Snapshots, "", name)
		})
	}
	return m.execute(ctx, requests, compute.Snapshots.Name, "deleting snapshots")
}

func (m *Mover) createDisksFromSnapshots(ctx context.Context, mappings map[string]string, destZone string) error {
	if len(mappings) == 0 {
		return nil
	}
	m.Out.PrintToUser("Recreating disks from snapshots...")
	namer := m.Service.Namer()
	var requests []compute.Request
	for _, disk := range sortedKeys(mappings) {
		body := compute.Resource{
			"name":           disk,
			"sourceSnapshot": namer.NormalizeGlobal(m.Service.Project(), "snapshots", mappings[disk]),
		}
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return m.Service.Insert(ctx, compute.Disks, destZone, body)
		})
	}
	return m.execute(ctx, requests, compute.Disks.Name, "re-creating disks")
}

func (m *Mover) deleteDisks(ctx context.Context, names []string, zone string) error {
	if len(names) == 0 {
		return nil
	}
	m.Out.PrintToUser("Deleting disks...")
	var requests []compute.Request
	for _, name := range names {
		requests = append(requests, func(ctx context.Context) (compute.Resource, error) {
			return m.Service.Delete(ctx, compute.Disks, zone, name)
		})
	}
	return m.execute(ctx, requests, compute.Disks.Name, "deleting disks")
}

func checkInstancePreconditions(toMove, inDest []compute.Resource) error {
	if len(toMove) == 0 {
		return compute.NewCommandError("No matching instances were found.")
	}
	if len(toMove) > constants.MaxInstancesToMove {
		return compute.NewCommandError("At most %d instances can be moved at a time. Refine your query and try again.",
			constants.MaxInstancesToMove)
	}
	if common := compute.Names(intersect(toMove, inDest)); len(common) > 0 {
		return compute.NewCommandError("Encountered name collisions. Instances with the following names exist in both the source and destination zones: \n%s",
			compute.ListStrings(common, "  "))
	}
	return nil
}

func checkDiskPreconditions(others []compute.Resource, disks []string) error {
	if len(disks) > constants.MaxDisksToMove {
		return compute.NewCommandError("At most %d disks can be moved at a time. Refine your query and try again.",
			constants.MaxDisksToMove)
	}
	inUse := disksInUse(others, disks)
	if len(inUse) == 0 {
		return nil
	}
	offending := make([]string, 0, len(inUse))
	for _, instance := range sortedKeys(inUse) {
		offending = append(offending, fmt.Sprintf("%s: %s", instance, inUse[instance]))
	}
	return compute.NewCommandError("Some of the instances you'd like to move have disks that are in use by other instances: (Offending instance: disks attached)\n%s",
		compute.ListStrings(offending, "  "))
}

// disksInUse maps each instance to the comma separated disks of names it
// has attached.
func disksInUse(instances []compute.Resource, names []string) map[string]string {
	wanted := toSet(names)
	attached := map[string][]string{}
	for _, instance := range instances {
		for _, disk := range instance.Maps("disks") {
			if disk.Field("type") != diskTypePersistent {
				continue
			}
			if name := compute.DenormalizeResourceName(disk.Field("source")); wanted[name] {
				attached[instance.Name()] = append(attached[instance.Name()], name)
			}
		}
	}
	out := make(map[string]string, len(attached))
	for instance, disks := range attached {
		out[instance] = strings.Join(disks, ", ")
	}
	return out
}

func persistentDiskNames(instances []compute.Resource) []string {
	var out []string
	for _, instance := range instances {
		for _, disk := range instance.Maps("disks") {
			if disk.Field("type") == diskTypePersistent {
				out = append(out, compute.DenormalizeResourceName(disk.Field("source")))
			}
		}
	}
	return out
}

// snapshotNames assigns every disk a fresh snapshot name.
func snapshotNames(disks []string) map[string]string {
	out := make(map[string]string, len(disks))
	for _, disk := range disks {
		out[disk] = "snapshot-" + uuid.NewString()
	}
	return out
}

func intersect(a, b []compute.Resource) []compute.Resource {
	names := toSet(compute.Names(a))
	var out []compute.Resource
	for _, r := range b {
		if names[r.Name()] {
			out = append(out, r)
		}
	}
	return out
}

func subtract(a, b []compute.Resource) []compute.Resource {
	names := toSet(compute.Names(b))
	var out []compute.Resource
	for _, r := range a {
		if !names[r.Name()] {
			out = append(out, r)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		out[item] = true
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mapValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}
