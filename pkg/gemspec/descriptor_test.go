// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultVariants(t *testing.T) {
	require := require.New(t)

	p := Default()
	require.Equal([]string{"gcloud", "googlecloud"}, p.VariantNames())

	for _, name := range p.VariantNames() {
		d, err := p.Variant(name)
		require.NoError(err)
		require.Equal(name, d.Name)
		require.Equal("Riccardo Carlesso", d.Author)
		require.NoError(d.Validate())
	}
}

func TestVariantDoesNotMutateProject(t *testing.T) {
	require := require.New(t)

	p := Default()
	d, err := p.Variant("googlecloud")
	require.NoError(err)
	require.Contains(d.Summary, "googlecloud")

	d.Files[0] = "changed"
	require.Equal("bin/*", p.Files[0])
	require.Empty(p.Name)

	other, err := p.Variant("gcloud")
	require.NoError(err)
	require.Equal(p.Summary, other.Summary)
}

func TestUnknownVariant(t *testing.T) {
	require := require.New(t)

	_, err := Default().Variant("gcloud2")
	require.ErrorIs(err, ErrUnknownVariant)
	require.Contains(err.Error(), "googlecloud")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Descriptor)
		wantErr []string
	}{
		{name: "valid", mutate: func(*Descriptor) {}},
		{
			name:    "uppercase name",
			mutate:  func(d *Descriptor) { d.Name = "GCloud" },
			wantErr: []string{`invalid name "GCloud"`},
		},
		{
			name:    "bad version",
			mutate:  func(d *Descriptor) { d.Version = "1.0" },
			wantErr: []string{`invalid version "1.0"`},
		},
		{
			name:    "prerelease version",
			mutate:  func(d *Descriptor) { d.Version = "1.0.0-rc.1" },
			wantErr: nil,
		},
		{
			name: "everything missing",
			mutate: func(d *Descriptor) {
				*d = Descriptor{}
			},
			wantErr: []string{
				"name is required",
				"version is required",
				"author is required",
				"email is required",
				"at least one file glob is required",
			},
		},
		{
			name:    "bad email",
			mutate:  func(d *Descriptor) { d.Email = "Riccardo <someone@example.com>" },
			wantErr: []string{"invalid email"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			d, err := Default().Variant("gcloud")
			require.NoError(err)
			tt.mutate(&d)

			err = d.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(err)
				return
			}
			require.Error(err)
			for _, want := range tt.wantErr {
				require.Contains(err.Error(), want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "gemspec.yaml")
	content := `version: 2.1.0
summary: shared summary
author: Someone Else
email: someone@example.com
files:
  - lib/**
ignore:
  - "*.tmp"
variants:
  - name: alpha
  - name: beta
    summary: beta summary
    files:
      - bin/*
`
	require.NoError(os.WriteFile(path, []byte(content), 0o600))

	p, err := Load(path)
	require.NoError(err)
	require.Equal([]string{"alpha", "beta"}, p.VariantNames())

	alpha, err := p.Variant("alpha")
	require.NoError(err)
	require.Equal("2.1.0", alpha.Version)
	require.Equal("shared summary", alpha.Summary)
	require.Equal([]string{"lib/**"}, alpha.Files)

	beta, err := p.Variant("beta")
	require.NoError(err)
	require.Equal("beta summary", beta.Summary)
	require.Equal([]string{"bin/*"}, beta.Files)
	require.Equal([]string{"*.tmp"}, beta.Ignore)
	require.Equal("beta-2.1.0.gem", beta.GemFileName())
	require.Equal("beta.gemspec", beta.GemspecFileName())
}

func TestLoadOrDefault(t *testing.T) {
	require := require.New(t)

	p, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(err)
	require.Equal(Default(), p)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(os.WriteFile(bad, []byte("variants: {"), 0o600))
	_, err = LoadOrDefault(bad)
	require.ErrorContains(err, "failed to parse descriptor")
}
