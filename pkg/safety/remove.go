// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package safety guards recursive deletes of build output.
package safety

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/palladius/gcloud/pkg/constants"
)

// Policy defines which paths are allowed or denied for deletion.
type Policy struct {
	Root          string   // project checkout
	AllowPrefixes []string // absolute paths allowed to delete under
	DenyPrefixes  []string // absolute paths never deletable
}

// ProjectPolicy allows removing build output below root and protects the
// sources and descriptors of the checkout.
func ProjectPolicy(root string) Policy {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return Policy{
		Root: abs,
		AllowPrefixes: []string{
			filepath.Join(abs, constants.PkgDir),
			filepath.Join(abs, "tmp"),
		},
		DenyPrefixes: []string{
			filepath.Join(abs, ".git"),
			filepath.Join(abs, "bin"),
			filepath.Join(abs, "lib"),
			filepath.Join(abs, "packages"),
			filepath.Join(abs, constants.ManifestFileName),
			filepath.Join(abs, constants.DescriptorFileName),
			filepath.Join(abs, constants.TasksFileName),
		},
	}
}

// RemoveAll removes target and everything below it if the policy allows it.
func RemoveAll(policy Policy, target string) error {
	abs, err := check(policy, target)
	if err != nil {
		return err
	}
	return os.RemoveAll(abs)
}

// Remove removes a single file if the policy allows it. A missing file is
// not an error.
func Remove(policy Policy, target string) error {
	abs, err := check(policy, target)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func check(policy Policy, target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if policy.Root != "" && !isUnderOrEqual(abs, policy.Root) {
		return "", fmt.Errorf("refusing to delete %s: outside %s", abs, policy.Root)
	}
	// deny wins over allow
	if IsProtected(policy, abs) {
		return "", fmt.Errorf("refusing to delete protected path: %s (protected by policy)", abs)
	}
	if !IsAllowed(policy, abs) {
		return "", fmt.Errorf("refusing to delete %s: not build output", abs)
	}
	return abs, nil
}

// Allow returns a copy of policy that also allows deleting paths, given
// relative to Root.
func (p Policy) Allow(paths ...string) Policy {
	allow := append([]string(nil), p.AllowPrefixes...)
	for _, path := range paths {
		allow = append(allow, filepath.Join(p.Root, path))
	}
	p.AllowPrefixes = allow
	return p
}

// isUnderOrEqual returns true if path is equal to or under prefix.
func isUnderOrEqual(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

// IsProtected checks if a path is protected by the given policy.
func IsProtected(policy Policy, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return true
	}
	for _, d := range policy.DenyPrefixes {
		if isUnderOrEqual(abs, d) {
			return true
		}
	}
	return false
}

// IsAllowed checks if a path is in the allowed deletion list.
func IsAllowed(policy Policy, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, a := range policy.AllowPrefixes {
		if isUnderOrEqual(abs, a) {
			return true
		}
	}
	return false
}
