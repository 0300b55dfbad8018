// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gemspec models the package descriptor and drives the packaging
// pipeline: file resolution, manifest, gemspec rendering, build and release.
package gemspec

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"regexp"
	"slices"

	"github.com/palladius/gcloud/pkg/constants"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")

	gemNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
)

// Descriptor is the metadata of one published package.
type Descriptor struct {
	Name        string   `yaml:"name,omitempty" json:"name"`
	Version     string   `yaml:"version,omitempty" json:"version"`
	Summary     string   `yaml:"summary,omitempty" json:"summary"`
	Description string   `yaml:"description,omitempty" json:"description"`
	Homepage    string   `yaml:"homepage,omitempty" json:"homepage"`
	Author      string   `yaml:"author,omitempty" json:"author"`
	Email       string   `yaml:"email,omitempty" json:"email"`
	Files       []string `yaml:"files,omitempty" json:"-"`
	Executables []string `yaml:"executables,omitempty" json:"executables"`
	Signed      bool     `yaml:"signed,omitempty" json:"signed"`
	Ignore      []string `yaml:"ignore,omitempty" json:"-"`
}

// Project is the descriptor file: shared fields plus per-variant overrides.
type Project struct {
	Descriptor `yaml:",inline"`
	Variants   []Descriptor `yaml:"variants,omitempty"`
}

func Default() *Project {
	return &Project{
		Descriptor: Descriptor{
			Version:     constants.Version,
			Summary:     "Google Cloud command line utilities",
			Description: "Wrappers around gcutil for Google Compute Engine: kernels, machine types, operations and moving instances across zones.",
			Homepage:    "https://github.com/palladius/gcloud",
			Author:      "Riccardo Carlesso",
			Email:       "gcloud-maintainers@example.com",
			Files: []string{
				"bin/*",
				"lib/**",
				"packages/**",
				"README*",
				"LICENSE",
				constants.ManifestFileName,
			},
			Executables: []string{"gcloud"},
			Ignore: []string{
				".git/",
				constants.PkgDir + "/",
				"tmp/",
				"*" + constants.GemSuffix,
				"*.swp",
				"*~",
			},
		},
		Variants: []Descriptor{
			{Name: "gcloud"},
			{
				Name:    "googlecloud",
				Summary: "Google Cloud command line utilities (googlecloud alias package)",
			},
		},
	}
}

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}
	p := &Project{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}
	return p, nil
}

// LoadOrDefault loads path when it exists and falls back to Default.
func LoadOrDefault(path string) (*Project, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// VariantNames lists the declared variant names in order.
func (p *Project) VariantNames() []string {
	names := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		names = append(names, v.Name)
	}
	return names
}

// Variant returns the shared descriptor merged with the named variant.
// The project itself is left untouched.
func (p *Project) Variant(name string) (Descriptor, error) {
	idx := slices.IndexFunc(p.Variants, func(v Descriptor) bool { return v.Name == name })
	if idx < 0 {
		return Descriptor{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownVariant, name, p.VariantNames())
	}
	v := p.Variants[idx]
	d := p.Descriptor.clone()
	d.Name = v.Name
	if v.Version != "" {
		d.Version = v.Version
	}
	if v.Summary != "" {
		d.Summary = v.Summary
	}
	if v.Description != "" {
		d.Description = v.Description
	}
	if v.Homepage != "" {
		d.Homepage = v.Homepage
	}
	if v.Files != nil {
		d.Files = slices.Clone(v.Files)
	}
	if v.Executables != nil {
		d.Executables = slices.Clone(v.Executables)
	}
	if v.Ignore != nil {
		d.Ignore = slices.Clone(v.Ignore)
	}
	d.Signed = d.Signed || v.Signed
	return d, nil
}

func (d Descriptor) clone() Descriptor {
	c := d
	c.Files = slices.Clone(d.Files)
	c.Executables = slices.Clone(d.Executables)
	c.Ignore = slices.Clone(d.Ignore)
	return c
}

// GemFileName is <name>-<version>.gem.
func (d *Descriptor) GemFileName() string {
	return fmt.Sprintf("%s-%s%s", d.Name, d.Version, constants.GemSuffix)
}

// GemspecFileName is <name>.gemspec.
func (d *Descriptor) GemspecFileName() string {
	return d.Name + constants.GemspecSuffix
}

// Validate reports every problem found in the descriptor.
func (d *Descriptor) Validate() error {
	var errs []error
	switch {
	case d.Name == "":
		errs = append(errs, errors.New("name is required"))
	case !gemNameRe.MatchString(d.Name):
		errs = append(errs, fmt.Errorf("invalid name %q: use lowercase letters, digits, '.', '_' and '-'", d.Name))
	}
	switch {
	case d.Version == "":
		errs = append(errs, errors.New("version is required"))
	case !semver.IsValid("v" + d.Version):
		errs = append(errs, fmt.Errorf("invalid version %q: expected a semantic version", d.Version))
	}
	if d.Author == "" {
		errs = append(errs, errors.New("author is required"))
	}
	if d.Email == "" {
		errs = append(errs, errors.New("email is required"))
	} else if addr, err := mail.ParseAddress(d.Email); err != nil || addr.Address != d.Email {
		errs = append(errs, fmt.Errorf("invalid email %q", d.Email))
	}
	if len(d.Files) == 0 {
		errs = append(errs, errors.New("at least one file glob is required"))
	}
	return errors.Join(errs...)
}
