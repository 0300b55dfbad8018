// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/palladius/gcloud/pkg/constants"
)

func matcher(patterns []string) gitignore.Matcher {
	ps := make([]gitignore.Pattern, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(ps)
}

// globs matches paths the way Ruby Dir globs do: every pattern is anchored
// at the root and, unless it contains "**", matches only paths with as many
// segments as the pattern itself.
type globs []glob

type glob struct {
	pattern gitignore.Pattern
	// depth is the segment count a match must have, 0 for any.
	depth int
}

func includeMatcher(patterns []string) globs {
	out := make(globs, 0, len(patterns))
	for _, p := range patterns {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		depth := 0
		if !strings.Contains(p, "**") {
			depth = strings.Count(p, "/") + 1
		}
		out = append(out, glob{pattern: gitignore.ParsePattern("/"+p, nil), depth: depth})
	}
	return out
}

func (g globs) Match(parts []string) bool {
	for _, p := range g {
		if p.depth > 0 && p.depth != len(parts) {
			continue
		}
		if p.pattern.Match(parts, false) == gitignore.Exclude {
			return true
		}
	}
	return false
}

// ResolveFiles lists the files below root matched by the include globs of
// d and not matched by its ignore patterns. Paths are slash separated,
// relative to root, sorted and unique.
func ResolveFiles(root string, d Descriptor) ([]string, error) {
	include := includeMatcher(d.Files)
	ignore := matcher(d.Ignore)

	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if entry.IsDir() {
			if entry.Name() == ".git" || ignore.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || ignore.Match(parts, false) {
			return nil
		}
		if include.Match(parts) {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve files in %s: %w", root, err)
	}
	return sortUnique(files), nil
}

// Select keeps the entries of files that d includes and does not ignore.
func Select(files []string, d Descriptor) []string {
	include := includeMatcher(d.Files)
	ignore := matcher(d.Ignore)
	var out []string
	for _, f := range files {
		parts := strings.Split(f, "/")
		if include.Match(parts) && !ignore.Match(parts, false) {
			out = append(out, f)
		}
	}
	return sortUnique(out)
}

func sortUnique(files []string) []string {
	out := slices.Clone(files)
	slices.Sort(out)
	return slices.Compact(out)
}

// WriteManifest writes the Manifest file, one path per line.
func WriteManifest(root string, files []string) (string, error) {
	var buf bytes.Buffer
	for _, f := range sortUnique(files) {
		buf.WriteString(f)
		buf.WriteByte('\n')
	}
	path := filepath.Join(root, constants.ManifestFileName)
	if err := os.WriteFile(path, buf.Bytes(), constants.WriteReadReadPerms); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

func ReadManifest(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, constants.ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return sortUnique(files), nil
}

// ManifestFiles resolves the file list and makes sure the Manifest itself is
// part of it when the descriptor includes it.
func ManifestFiles(root string, d Descriptor) ([]string, error) {
	files, err := ResolveFiles(root, d)
	if err != nil {
		return nil, err
	}
	parts := []string{constants.ManifestFileName}
	if includeMatcher(d.Files).Match(parts) && !matcher(d.Ignore).Match(parts, false) {
		files = sortUnique(append(files, constants.ManifestFileName))
	}
	return files, nil
}
