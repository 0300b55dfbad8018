// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tasks runs named aliases: ordered steps that stop at the first
// failure, in the manner of make targets.
package tasks

import (
	"fmt"
	"os"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownTask    = errors.New("unknown task")
	ErrUnknownBuiltin = errors.New("unknown builtin")
	ErrAliasCycle     = errors.New("alias cycle")
	ErrInvalidStep    = errors.New("invalid step")
)

// Builtin names registered by the CLI.
const (
	BuiltinHelp         = "help"
	BuiltinTest         = "test"
	BuiltinManifest     = "manifest"
	BuiltinBuildGemspec = "build_gemspec"
	BuiltinRelease      = "release"
)

// Step is exactly one of a shell command, a builtin, another alias or a
// message.
type Step struct {
	Run   string `yaml:"run,omitempty"`
	Task  string `yaml:"task,omitempty"`
	Alias string `yaml:"alias,omitempty"`
	Echo  string `yaml:"echo,omitempty"`
	// Stdin is a URL fetched and piped into Run.
	Stdin string `yaml:"stdin,omitempty"`
}

func (s Step) String() string {
	switch {
	case s.Run != "" && s.Stdin != "":
		return fmt.Sprintf("curl %s | %s", s.Stdin, s.Run)
	case s.Run != "":
		return s.Run
	case s.Task != "":
		return "task " + s.Task
	case s.Alias != "":
		return "alias " + s.Alias
	default:
		return "echo " + s.Echo
	}
}

func (s Step) validate() error {
	set := 0
	for _, v := range []string{s.Run, s.Task, s.Alias, s.Echo} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return errors.Wrapf(ErrInvalidStep, "exactly one of run, task, alias or echo must be set (got %d)", set)
	}
	if s.Stdin != "" && s.Run == "" {
		return errors.Wrap(ErrInvalidStep, "stdin requires run")
	}
	return nil
}

type Alias struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Aliases maps alias names to their definitions.
type Aliases map[string]Alias

func (a Aliases) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the stock aliases. installURL is the installer script
// piped to sh by install.
func Defaults(installURL string) Aliases {
	return Aliases{
		"help": {
			Name:        "help",
			Description: "Show the available tasks",
			Steps:       []Step{{Task: BuiltinHelp}},
		},
		"install": {
			Name:        "install",
			Description: "Install gcloud with the remote installer script",
			Steps:       []Step{{Run: "sh", Stdin: installURL}},
		},
		"test": {
			Name:        "test",
			Description: "Run the test suite",
			Steps:       []Step{{Task: BuiltinTest}},
		},
		"prepdeploy": {
			Name:        "prepdeploy",
			Description: "Write the Manifest and the gemspec",
			Steps: []Step{
				{Task: BuiltinManifest},
				{Task: BuiltinBuildGemspec},
			},
		},
		"gemdeploy": {
			Name:        "gemdeploy",
			Description: "Build and release the gem",
			Steps: []Step{
				{Task: BuiltinManifest},
				{Task: BuiltinBuildGemspec},
				{Task: BuiltinRelease},
				{Echo: "gem deployed"},
			},
		},
	}
}

type file struct {
	Aliases map[string]Alias `yaml:"aliases"`
}

// Load reads user aliases from a YAML file of the form
//
//	aliases:
//	  lint:
//	    description: Run linters
//	    steps:
//	      - run: golangci-lint run
func Load(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tasks file %s", path)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tasks file %s", path)
	}
	out := make(Aliases, len(f.Aliases))
	for name, alias := range f.Aliases {
		alias.Name = name
		out[name] = alias
	}
	return out, out.Validate()
}

// Merge returns base with every alias of overrides replacing the one with
// the same name.
func Merge(base, overrides Aliases) Aliases {
	out := make(Aliases, len(base)+len(overrides))
	for name, alias := range base {
		out[name] = alias
	}
	for name, alias := range overrides {
		out[name] = alias
	}
	return out
}

// Validate checks every step and rejects references to missing aliases and
// cycles between aliases.
func (a Aliases) Validate() error {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for _, name := range a.Names() {
		if err := g.AddVertex(name); err != nil {
			return errors.Wrapf(err, "alias %s", name)
		}
	}
	for _, name := range a.Names() {
		for i, step := range a[name].Steps {
			if err := step.validate(); err != nil {
				return errors.Wrapf(err, "alias %s step %d", name, i+1)
			}
			if step.Alias == "" {
				continue
			}
			if _, ok := a[step.Alias]; !ok {
				return errors.Wrapf(ErrUnknownTask, "alias %s references %s", name, step.Alias)
			}
			if step.Alias == name {
				return errors.Wrapf(ErrAliasCycle, "%s -> %s", name, name)
			}
			err := g.AddEdge(name, step.Alias)
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return errors.Wrapf(ErrAliasCycle, "%s -> %s", name, step.Alias)
			default:
				return errors.Wrapf(err, "alias %s", name)
			}
		}
	}
	return nil
}
