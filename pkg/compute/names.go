// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/palladius/gcloud/pkg/constants"
)

// DenormalizeResourceName returns the name of a resource relative to its
// enclosing collection.
func DenormalizeResourceName(name string) string {
	name = strings.Trim(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// DenormalizeProjectName validates a project flag and strips any
// "projects/" qualifier.
func DenormalizeProjectName(project string) (string, error) {
	if project == "" {
		return "", NewCommandError(`You must specify a project name using the "--project" flag.`)
	}
	if strings.ToLower(project) != project {
		return "", NewCommandError("Characters in project name must be lowercase: %s.", project)
	}
	project = strings.Trim(project, "/")
	project = strings.TrimPrefix(project, "projects/")
	if strings.Contains(project, "/") {
		return "", NewCommandError("Project names can contain a '/' only when they begin with 'projects/'.")
	}
	return project, nil
}

// Namer builds and strips fully qualified resource URLs for one API host
// and version.
type Namer struct {
	APIHost string
	Version string

	stripRe *regexp.Regexp
}

func NewNamer(apiHost, version string) *Namer {
	if apiHost == "" {
		apiHost = constants.DefaultAPIHost
	}
	if version == "" {
		version = constants.DefaultServiceVersion
	}
	return &Namer{
		APIHost: apiHost,
		Version: version,
		stripRe: regexp.MustCompile("^" + regexp.QuoteMeta(apiHost) + `compute/\w*/`),
	}
}

// BaseURL is e.g. https://www.googleapis.com/compute/v1beta14.
func (n *Namer) BaseURL() string {
	return fmt.Sprintf("%scompute/%s", n.APIHost, n.Version)
}

func (n *Namer) AddBaseURLIfNecessary(path string) string {
	if !strings.Contains(path, n.BaseURL()) {
		return n.BaseURL() + "/" + path
	}
	return path
}

// StripBaseURL removes anything that looks like a compute base URL.
func (n *Namer) StripBaseURL(value string) string {
	return n.stripRe.ReplaceAllString(value, "")
}

func (n *Namer) atLeast(required string) bool {
	ok, err := AtLeast(n.Version, required)
	return err == nil && ok
}

// Normalize returns the full URL of a resource. Names that already look
// absolute only get the base URL prepended. The scope is dropped for API
// versions older than v1beta14.
func (n *Namer) Normalize(project, scope, collection, name string) string {
	name = strings.Trim(name, "/")

	if collection == "machine-types" && n.atLeast("v1beta13") {
		collection = "machineTypes"
	}

	if strings.HasPrefix(name, "projects/") ||
		strings.HasPrefix(name, collection+"/") ||
		strings.HasPrefix(name, n.APIHost) {
		return n.AddBaseURLIfNecessary(name)
	}

	absolute := fmt.Sprintf("projects/%s/%s/%s", project, collection, name)
	if scope != "" && n.atLeast("v1beta14") {
		absolute = fmt.Sprintf("projects/%s/%s/%s/%s", project, scope, collection, name)
	}
	return n.AddBaseURLIfNecessary(absolute)
}

func (n *Namer) NormalizeTopLevel(project, collection, name string) string {
	return n.Normalize(project, "", collection, name)
}

func (n *Namer) NormalizeGlobal(project, collection, name string) string {
	return n.Normalize(project, constants.GlobalZoneName, collection, name)
}

func (n *Namer) NormalizePerZone(project, zone, collection, name string) string {
	return n.Normalize(project, "zones/"+zone, collection, name)
}

// ZoneFromSelfLink returns the zone of a zone-qualified link, or "".
func (n *Namer) ZoneFromSelfLink(selfLink string) string {
	parts := strings.Split(n.StripBaseURL(selfLink), "/")
	if len(parts) > 3 && parts[0] == "projects" && parts[2] == "zones" {
		return parts[3]
	}
	return ""
}
