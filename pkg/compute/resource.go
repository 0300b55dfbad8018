// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	StatusDone  = "DONE"
	StatusReady = "READY"

	listNote = "This JSON result is based on multiple API calls. This object was created in the client."
)

// Resource is a decoded API object.
type Resource map[string]any

func (r Resource) Field(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// Float returns a numeric field. The API sends int64 values as strings.
func (r Resource) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func (r Resource) Map(key string) Resource {
	switch v := r[key].(type) {
	case map[string]any:
		return Resource(v)
	case Resource:
		return v
	}
	return nil
}

func (r Resource) Maps(key string) []Resource {
	switch v := r[key].(type) {
	case []Resource:
		return v
	case []any:
		out := make([]Resource, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Resource(m))
			case Resource:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func (r Resource) Name() string     { return r.Field("name") }
func (r Resource) Kind() string     { return r.Field("kind") }
func (r Resource) SelfLink() string { return r.Field("selfLink") }
func (r Resource) Status() string   { return r.Field("status") }

// IsOperation reports whether the kind ends with "#operation".
func (r Resource) IsOperation() bool {
	return r != nil && strings.HasSuffix(r.Kind(), "#operation")
}

// IsList reports whether the kind ends with "List".
func (r Resource) IsList() bool {
	return r != nil && strings.HasSuffix(r.Kind(), "List")
}

func (r Resource) Items() []Resource {
	return r.Maps("items")
}

// OperationError is one entry of an operation's error.errors.
type OperationError struct {
	Code    string
	Message string
}

func (r Resource) Errors() []OperationError {
	var out []OperationError
	for _, e := range r.Map("error").Maps("errors") {
		out = append(out, OperationError{Code: e.Field("code"), Message: e.Field("message")})
	}
	return out
}

// HasErrorField reports whether an error object is present at all.
func (r Resource) HasErrorField() bool {
	_, ok := r["error"]
	return ok
}

// Clone returns a deep copy.
func (r Resource) Clone() Resource {
	b, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var out Resource
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// MakeListResult wraps results from several API calls into one list object.
func MakeListResult(results []Resource, kindBase string) Resource {
	items := make([]any, len(results))
	for i, r := range results {
		items[i] = map[string]any(r)
	}
	return Resource{
		"kind":  "compute#" + kindBase,
		"items": items,
		"note":  listNote,
	}
}

// ErrorInResult reports whether result, or any operation in a list result,
// carries errors. Only meaningful in synchronous mode.
func ErrorInResult(result Resource, synchronous bool) bool {
	if !synchronous {
		return false
	}
	var ops []Resource
	switch {
	case result.IsOperation():
		ops = []Resource{result}
	case result.IsList():
		ops = result.Items()
	}
	for _, op := range ops {
		if len(op.Errors()) > 0 {
			return true
		}
	}
	return false
}

// PartitionResults splits list items into plain resources and operations.
func PartitionResults(result Resource) (resources, operations []Resource) {
	for _, item := range result.Items() {
		if item.IsOperation() {
			operations = append(operations, item)
		} else {
			resources = append(resources, item)
		}
	}
	return resources, operations
}

// Names returns the name of each resource.
func Names(resources []Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Name()
	}
	return out
}
