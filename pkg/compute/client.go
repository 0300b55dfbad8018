// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/palladius/gcloud/pkg/constants"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// Scope says where a collection lives below a project.
type Scope int

const (
	ScopeTopLevel Scope = iota
	ScopeGlobal
	// ScopeZone collections are per zone; an empty zone selects the global
	// variant where one exists (operations).
	ScopeZone
)

type Collection struct {
	Name  string
	Scope Scope
}

var (
	Zones        = Collection{Name: "zones", Scope: ScopeTopLevel}
	Kernels      = Collection{Name: "kernels", Scope: ScopeGlobal}
	MachineTypes = Collection{Name: "machineTypes", Scope: ScopeGlobal}
	Snapshots    = Collection{Name: "snapshots", Scope: ScopeGlobal}
	Instances    = Collection{Name: "instances", Scope: ScopeZone}
	Disks        = Collection{Name: "disks", Scope: ScopeZone}
	Operations   = Collection{Name: "operations", Scope: ScopeZone}
)

// CollectionPath returns the project-relative path of a collection.
func (n *Namer) CollectionPath(project string, coll Collection, zone string) string {
	base := "projects/" + project
	scoped := n.atLeast("v1beta14")
	switch {
	case coll.Scope == ScopeTopLevel || !scoped:
		return base + "/" + coll.Name
	case coll.Scope == ScopeZone && zone != "":
		return base + "/zones/" + zone + "/" + coll.Name
	default:
		return base + "/" + constants.GlobalZoneName + "/" + coll.Name
	}
}

// PageOptions are the paging and filtering parameters of a list call.
type PageOptions struct {
	MaxResults int
	Filter     string
	PageToken  string
}

// Service is the subset of the compute API the commands rely on.
type Service interface {
	Project() string
	Namer() *Namer
	GetProject(ctx context.Context) (Resource, error)
	Get(ctx context.Context, coll Collection, zone, name string) (Resource, error)
	List(ctx context.Context, coll Collection, zone string, opts PageOptions) (Resource, error)
	Insert(ctx context.Context, coll Collection, zone string, body Resource) (Resource, error)
	Delete(ctx context.Context, coll Collection, zone, name string) (Resource, error)
	Fetch(ctx context.Context, link string) (Resource, error)
}

type ClientOptions struct {
	Project         string
	APIHost         string
	Version         string
	TraceToken      string
	CredentialsFile string
	// HTTPClient skips credential discovery when set.
	HTTPClient *http.Client
	Log        *zap.Logger
}

// Client talks JSON to the compute REST API.
type Client struct {
	hc         *http.Client
	namer      *Namer
	project    string
	traceToken string
	log        *zap.Logger
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if err := ValidateVersion(opts.Version); err != nil {
		return nil, err
	}
	hc := opts.HTTPClient
	if hc == nil {
		clientOpts := []option.ClientOption{
			option.WithScopes(constants.ComputeScope),
			option.WithUserAgent(constants.UserAgent),
		}
		if opts.CredentialsFile != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
		}
		var err error
		hc, _, err = htransport.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, NewCommandError("Could not get valid credentials for API: %s", err)
		}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		hc:         hc,
		namer:      NewNamer(opts.APIHost, opts.Version),
		project:    opts.Project,
		traceToken: opts.TraceToken,
		log:        log,
	}, nil
}

func (c *Client) Project() string { return c.project }
func (c *Client) Namer() *Namer   { return c.namer }

func (c *Client) GetProject(ctx context.Context) (Resource, error) {
	return c.do(ctx, http.MethodGet, "projects/"+c.project, nil, nil)
}

func (c *Client) Get(ctx context.Context, coll Collection, zone, name string) (Resource, error) {
	path := c.namer.CollectionPath(c.project, coll, zone) + "/" + url.PathEscape(name)
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) List(ctx context.Context, coll Collection, zone string, opts PageOptions) (Resource, error) {
	q := url.Values{}
	if opts.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(opts.MaxResults))
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	if opts.PageToken != "" {
		q.Set("pageToken", opts.PageToken)
	}
	return c.do(ctx, http.MethodGet, c.namer.CollectionPath(c.project, coll, zone), q, nil)
}

func (c *Client) Insert(ctx context.Context, coll Collection, zone string, body Resource) (Resource, error) {
	return c.do(ctx, http.MethodPost, c.namer.CollectionPath(c.project, coll, zone), nil, body)
}

func (c *Client) Delete(ctx context.Context, coll Collection, zone, name string) (Resource, error) {
	path := c.namer.CollectionPath(c.project, coll, zone) + "/" + url.PathEscape(name)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Fetch GETs an absolute resource link such as an operation's targetLink.
func (c *Client) Fetch(ctx context.Context, link string) (Resource, error) {
	return c.do(ctx, http.MethodGet, link, nil, nil)
}

func (c *Client) resolve(path string, q url.Values) (string, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		path = c.namer.AddBaseURLIfNecessary(path)
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	values := u.Query()
	for k, vs := range q {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	if c.traceToken != "" {
		values.Set("trace", "token:"+c.traceToken)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body Resource) (Resource, error) {
	target, err := c.resolve(path, q)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.APIRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("api request", zap.String("method", method), zap.String("url", target))
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		c.log.Debug("api error", zap.String("url", target), zap.Error(err))
		return nil, err
	}

	var res Resource
	if resp.StatusCode == http.StatusNoContent {
		return Resource{}, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	if res == nil {
		res = Resource{}
	}
	return res, nil
}
