// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/palladius/gcloud/pkg/cloud/storage"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/safety"
	"github.com/palladius/gcloud/pkg/ux"
	"go.uber.org/zap"
)

var ErrNoReleaseURI = errors.New("no release location configured (use --to or config set release.uri)")

// Pipeline runs the packaging steps for a project checkout.
type Pipeline struct {
	Root string
	// DescriptorPath defaults to <Root>/gemspec.yaml; the built-in project
	// is used when it does not exist.
	DescriptorPath string
	// OutDir defaults to <Root>/pkg.
	OutDir string
	// Variants to process, all declared variants when empty.
	Variants       []string
	ReleaseURI     string
	Overwrite      bool
	StorageOptions storage.Options
	Out            *ux.UserLog
	Log            *zap.Logger

	// OpenStore overrides storage.Open.
	OpenStore func(ctx context.Context, loc storage.Location, opts storage.Options) (storage.Store, error)
}

func (p *Pipeline) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

func (p *Pipeline) out() *ux.UserLog {
	if p.Out == nil {
		return ux.NewUserLogTo(p.log(), os.Stdout)
	}
	return p.Out
}

func (p *Pipeline) outDir() string {
	if p.OutDir != "" {
		return p.OutDir
	}
	return filepath.Join(p.Root, constants.PkgDir)
}

func (p *Pipeline) project() (*Project, error) {
	path := p.DescriptorPath
	if path == "" {
		path = filepath.Join(p.Root, constants.DescriptorFileName)
	}
	return LoadOrDefault(path)
}

// Descriptors returns the validated descriptors of the selected variants.
func (p *Pipeline) Descriptors() ([]Descriptor, error) {
	project, err := p.project()
	if err != nil {
		return nil, err
	}
	names := p.Variants
	if len(names) == 0 {
		names = project.VariantNames()
	}
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		d, err := project.Variant(name)
		if err != nil {
			return nil, err
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("descriptor %s: %w", name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Manifest writes the Manifest listing the files of every selected variant.
func (p *Pipeline) Manifest(_ context.Context) error {
	ds, err := p.Descriptors()
	if err != nil {
		return err
	}
	if len(ds) == 0 {
		return errors.New("no variants declared")
	}
	var files []string
	for _, d := range ds {
		variantFiles, err := ManifestFiles(p.Root, d)
		if err != nil {
			return err
		}
		files = append(files, variantFiles...)
	}
	path, err := WriteManifest(p.Root, files)
	if err != nil {
		return err
	}
	p.out().GreenCheckmarkToUser("Wrote %s (%d files)", path, len(sortUnique(files)))
	return nil
}

// files returns the Manifest entries the variant selects, or resolves its
// globs when there is no Manifest.
func (p *Pipeline) files(d Descriptor) ([]string, error) {
	files, err := ReadManifest(p.Root)
	if err == nil {
		return Select(files, d), nil
	}
	p.log().Debug("no manifest, resolving files", zap.String("variant", d.Name), zap.Error(err))
	return ResolveFiles(p.Root, d)
}

// Gemspec writes <name>.gemspec for every selected variant.
func (p *Pipeline) Gemspec(_ context.Context) error {
	ds, err := p.Descriptors()
	if err != nil {
		return err
	}
	for _, d := range ds {
		files, err := p.files(d)
		if err != nil {
			return err
		}
		path, err := WriteGemspec(p.Root, d, files)
		if err != nil {
			return err
		}
		p.out().GreenCheckmarkToUser("Wrote %s", path)
	}
	return nil
}

// Build packs every selected variant into OutDir.
func (p *Pipeline) Build(ctx context.Context) ([]*Artifact, error) {
	ds, err := p.Descriptors()
	if err != nil {
		return nil, err
	}
	tracker := ux.NewStepTracker(p.out())
	artifacts := make([]*Artifact, 0, len(ds))
	for _, d := range ds {
		files, err := p.files(d)
		if err != nil {
			return nil, err
		}
		tracker.Start("Building " + d.GemFileName())
		artifact, err := Build(ctx, p.Root, d, files, p.outDir())
		if err != nil {
			tracker.Failed(err.Error())
			return nil, err
		}
		tracker.Complete()
		artifacts = append(artifacts, artifact)
	}
	rows := make([][]string, len(artifacts))
	for i, a := range artifacts {
		rows[i] = []string{a.Path, ux.ConvertToStringWithThousandSeparator(float64(a.Size)), a.SHA256}
	}
	if err := ux.RenderTable(p.out().Writer(), []string{"artifact", "bytes", "sha256"}, rows, false); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (p *Pipeline) openStore(ctx context.Context) (storage.Store, storage.Location, error) {
	if p.ReleaseURI == "" {
		return nil, storage.Location{}, ErrNoReleaseURI
	}
	loc, err := storage.ParseURI(p.ReleaseURI)
	if err != nil {
		return nil, storage.Location{}, err
	}
	open := p.OpenStore
	if open == nil {
		open = storage.Open
	}
	store, err := open(ctx, loc, p.StorageOptions)
	if err != nil {
		return nil, storage.Location{}, err
	}
	return store, loc, nil
}

// Release builds every selected variant and uploads it to ReleaseURI.
func (p *Pipeline) Release(ctx context.Context) error {
	if p.ReleaseURI == "" {
		return ErrNoReleaseURI
	}
	if _, err := storage.ParseURI(p.ReleaseURI); err != nil {
		return err
	}
	artifacts, err := p.Build(ctx)
	if err != nil {
		return err
	}

	store, loc, err := p.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, a := range artifacts {
		key, err := Release(ctx, store, a, loc.Key(filepath.Base(a.Path)), ReleaseOptions{Overwrite: p.Overwrite})
		if err != nil {
			return err
		}
		p.log().Info("released", zap.String("artifact", a.Path), zap.String("key", key))
		p.out().GreenCheckmarkToUser("Released %s to %s", filepath.Base(a.Path), objectURI(loc, key))
	}
	return nil
}

// Releases lists the gems already released to ReleaseURI.
func (p *Pipeline) Releases(ctx context.Context) ([]storage.Object, error) {
	store, loc, err := p.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	prefix := loc.Prefix
	if prefix != "" {
		prefix += "/"
	}
	return Releases(ctx, store, prefix)
}

func objectURI(loc storage.Location, key string) string {
	if loc.Scheme == storage.SchemeLocal {
		return "file://" + path.Join(loc.Bucket, key)
	}
	return fmt.Sprintf("%s://%s/%s", loc.Scheme, loc.Bucket, key)
}

// Clean removes the build output directory and the gemspecs of the selected
// variants.
func (p *Pipeline) Clean(_ context.Context) error {
	project, err := p.project()
	if err != nil {
		return err
	}
	names := p.Variants
	if len(names) == 0 {
		names = project.VariantNames()
	}
	gemspecs := make([]string, 0, len(names))
	for _, name := range names {
		d, err := project.Variant(name)
		if err != nil {
			return err
		}
		gemspecs = append(gemspecs, d.GemspecFileName())
	}
	policy := safety.ProjectPolicy(p.Root).Allow(gemspecs...)

	dir := p.outDir()
	if err := safety.RemoveAll(policy, dir); err != nil {
		return err
	}
	p.out().GreenCheckmarkToUser("Removed %s", dir)

	for _, name := range gemspecs {
		file := filepath.Join(p.Root, name)
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := safety.Remove(policy, file); err != nil {
			return err
		}
		p.out().GreenCheckmarkToUser("Removed %s", file)
	}
	return nil
}
