// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package computetest provides an in-memory compute.Service for tests.
package computetest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/palladius/gcloud/pkg/compute"
	"google.golang.org/api/googleapi"
)

// Service keeps collections in memory. Inserts and deletes take effect
// immediately and return operations that report DONE after PendingPolls
// polls.
type Service struct {
	mu      sync.Mutex
	project string
	namer   *compute.Namer
	store   map[string]map[string]compute.Resource
	opSeq   int
	pending map[string]int

	ProjectResource compute.Resource
	// PendingPolls is how many Gets an operation stays RUNNING for.
	PendingPolls int
	// InsertErrors fails inserts of the named resources.
	InsertErrors map[string]error
	// OperationErrors makes the operation of the named resources carry an
	// error.
	OperationErrors map[string]string
	// Calls records "<method> <collection> <name>" for each mutating call.
	Calls []string
}

func New(project, version string) *Service {
	return &Service{
		project:         project,
		namer:           compute.NewNamer("", version),
		store:           map[string]map[string]compute.Resource{},
		pending:         map[string]int{},
		ProjectResource: compute.Resource{"kind": "compute#project", "name": project},
		InsertErrors:    map[string]error{},
		OperationErrors: map[string]string{},
	}
}

func (s *Service) Project() string       { return s.project }
func (s *Service) Namer() *compute.Namer { return s.namer }
func (s *Service) path(coll compute.Collection, zone string) string {
	return s.namer.CollectionPath(s.project, coll, zone)
}

func (s *Service) selfLink(coll compute.Collection, zone, name string) string {
	return s.namer.BaseURL() + "/" + s.path(coll, zone) + "/" + name
}

func notFound(what string) error {
	return &googleapi.Error{Code: http.StatusNotFound, Message: fmt.Sprintf("The resource '%s' was not found", what)}
}

// Add stores res, filling in kind and selfLink, and returns the stored copy.
func (s *Service) Add(coll compute.Collection, zone string, res compute.Resource) compute.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(coll, zone, res)
}

func (s *Service) add(coll compute.Collection, zone string, res compute.Resource) compute.Resource {
	res = res.Clone()
	name := res.Name()
	if _, ok := res["kind"]; !ok {
		res["kind"] = "compute#" + compute.Singularize(coll.Name)
	}
	res["selfLink"] = s.selfLink(coll, zone, name)
	if zone != "" && coll.Scope == compute.ScopeZone {
		res["zone"] = s.namer.BaseURL() + "/" + s.path(compute.Zones, "") + "/" + zone
	}
	key := s.path(coll, zone)
	if s.store[key] == nil {
		s.store[key] = map[string]compute.Resource{}
	}
	s.store[key][name] = res
	return res.Clone()
}

// AddZone registers a zone.
func (s *Service) AddZone(name string, extra compute.Resource) compute.Resource {
	res := compute.Resource{"name": name, "status": "UP"}
	for k, v := range extra {
		res[k] = v
	}
	return s.Add(compute.Zones, "", res)
}

// Lookup returns a stored resource or nil.
func (s *Service) Lookup(coll compute.Collection, zone, name string) compute.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.store[s.path(coll, zone)][name]
	if !ok {
		return nil
	}
	return res.Clone()
}

// Names returns the sorted names stored in a collection.
func (s *Service) Names(coll compute.Collection, zone string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for name := range s.store[s.path(coll, zone)] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Service) GetProject(context.Context) (compute.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ProjectResource.Clone(), nil
}

func (s *Service) Get(_ context.Context, coll compute.Collection, zone, name string) (compute.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.path(coll, zone)
	res, ok := s.store[key][name]
	if !ok {
		return nil, notFound(key + "/" + name)
	}
	res = res.Clone()
	if coll == compute.Operations && s.pending[name] > 0 {
		s.pending[name]--
		res["status"] = "RUNNING"
	}
	return res, nil
}

func filterMatcher(filter string) (func(string) bool, error) {
	if filter == "" {
		return func(string) bool { return true }, nil
	}
	fields := strings.Fields(filter)
	if len(fields) != 3 || fields[0] != "name" {
		return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: "Invalid filter: " + filter}
	}
	re, err := regexp.Compile("^(?:" + fields[2] + ")$")
	if err != nil {
		return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	negate := fields[1] == "ne"
	return func(name string) bool { return re.MatchString(name) != negate }, nil
}

func (s *Service) List(_ context.Context, coll compute.Collection, zone string, opts compute.PageOptions) (compute.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, err := filterMatcher(opts.Filter)
	if err != nil {
		return nil, err
	}
	var names []string
	for name := range s.store[s.path(coll, zone)] {
		if match(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	start, _ := strconv.Atoi(opts.PageToken)
	if start > len(names) {
		start = len(names)
	}
	end := len(names)
	if opts.MaxResults > 0 && start+opts.MaxResults < end {
		end = start + opts.MaxResults
	}
	items := make([]any, 0, end-start)
	for _, name := range names[start:end] {
		items = append(items, map[string]any(s.store[s.path(coll, zone)][name].Clone()))
	}
	res := compute.Resource{"kind": "compute#" + compute.Singularize(coll.Name) + "List", "items": items}
	if end < len(names) {
		res["nextPageToken"] = strconv.Itoa(end)
	}
	return res, nil
}

func (s *Service) operation(coll compute.Collection, zone, opType, target string) compute.Resource {
	s.opSeq++
	name := fmt.Sprintf("operation-%d", s.opSeq)
	op := compute.Resource{
		"kind":          "compute#operation",
		"name":          name,
		"status":        compute.StatusDone,
		"operationType": opType,
		"targetLink":    s.selfLink(coll, zone, target),
		"insertTime":    fmt.Sprintf("2013-01-01T00:00:%02d.000-00:00", s.opSeq%60),
	}
	if msg, ok := s.OperationErrors[target]; ok {
		op["error"] = map[string]any{
			"errors": []any{map[string]any{"code": "RESOURCE_ERROR", "message": msg}},
		}
	}
	opZone := ""
	if coll.Scope == compute.ScopeZone {
		opZone = zone
	}
	op = s.add(compute.Operations, opZone, op)
	if s.PendingPolls > 0 {
		s.pending[name] = s.PendingPolls
		op["status"] = "PENDING"
	}
	return op
}

func (s *Service) Insert(_ context.Context, coll compute.Collection, zone string, body compute.Resource) (compute.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := body.Name()
	s.Calls = append(s.Calls, fmt.Sprintf("insert %s %s", coll.Name, name))
	if err, ok := s.InsertErrors[name]; ok {
		return nil, err
	}
	if _, exists := s.store[s.path(coll, zone)][name]; exists {
		return nil, &googleapi.Error{Code: http.StatusConflict, Message: fmt.Sprintf("The resource '%s' already exists", name)}
	}
	res := body.Clone()
	switch coll {
	case compute.Instances:
		res["status"] = "RUNNING"
	case compute.Disks, compute.Snapshots:
		res["status"] = compute.StatusReady
	}
	if coll == compute.Snapshots {
		if src := res.Field("sourceDisk"); src != "" {
			if disk := s.lookupLink(src); disk != nil {
				res["diskSizeGb"] = disk["sizeGb"]
			}
		}
	}
	if _, failed := s.OperationErrors[name]; !failed {
		s.add(coll, zone, res)
	}
	return s.operation(coll, zone, "insert", name), nil
}

func (s *Service) Delete(_ context.Context, coll compute.Collection, zone, name string) (compute.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, fmt.Sprintf("delete %s %s", coll.Name, name))
	key := s.path(coll, zone)
	if _, ok := s.store[key][name]; !ok {
		return nil, notFound(key + "/" + name)
	}
	delete(s.store[key], name)
	return s.operation(coll, zone, "delete", name), nil
}

func (s *Service) lookupLink(link string) compute.Resource {
	path := strings.Trim(s.namer.StripBaseURL(link), "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return nil
	}
	res, ok := s.store[path[:i]][path[i+1:]]
	if !ok {
		return nil
	}
	return res.Clone()
}

func (s *Service) Fetch(_ context.Context, link string) (compute.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.lookupLink(link)
	if res == nil {
		return nil, notFound(link)
	}
	return res, nil
}

var _ compute.Service = (*Service)(nil)
