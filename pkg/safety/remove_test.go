// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package safety

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProjectPolicy(t *testing.T) {
	root := t.TempDir()
	policy := ProjectPolicy(root)

	if len(policy.AllowPrefixes) == 0 {
		t.Error("expected allow prefixes")
	}
	if len(policy.DenyPrefixes) == 0 {
		t.Error("expected deny prefixes")
	}
}

func TestRemoveAllAllowed(t *testing.T) {
	root := t.TempDir()
	policy := ProjectPolicy(root)

	pkgDir := filepath.Join(root, "pkg")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "gcloud-1.0.0.gem"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveAll(policy, pkgDir); err != nil {
		t.Errorf("expected RemoveAll to succeed for build output, got: %v", err)
	}
	if _, err := os.Stat(pkgDir); !os.IsNotExist(err) {
		t.Errorf("expected %s to be removed", pkgDir)
	}
}

func TestRemoveAllDenied(t *testing.T) {
	root := t.TempDir()
	policy := ProjectPolicy(root)

	libDir := filepath.Join(root, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := RemoveAll(policy, libDir); err == nil {
		t.Error("expected RemoveAll to fail for sources")
	}
	if _, err := os.Stat(libDir); err != nil {
		t.Errorf("expected %s to survive: %v", libDir, err)
	}
}

func TestRemoveAllNotInAllowList(t *testing.T) {
	root := t.TempDir()
	policy := ProjectPolicy(root)

	if err := RemoveAll(policy, root); err == nil {
		t.Error("expected RemoveAll to refuse the checkout itself")
	}
	if err := RemoveAll(policy, filepath.Join(root, "docs")); err == nil {
		t.Error("expected RemoveAll to fail for path not in allow list")
	}
}

func TestIsProtected(t *testing.T) {
	root := t.TempDir()
	policy := ProjectPolicy(root)

	tests := []struct {
		path      string
		protected bool
		allowed   bool
	}{
		{filepath.Join(root, "Manifest"), true, false},
		{filepath.Join(root, "gemspec.yaml"), true, false},
		{filepath.Join(root, ".git", "config"), true, false},
		{filepath.Join(root, "pkg", "gcloud-1.0.0.gem"), false, true},
		{filepath.Join(root, "tmp"), false, true},
		{filepath.Join(root, "pkgs"), false, false},
	}
	for _, tt := range tests {
		if got := IsProtected(policy, tt.path); got != tt.protected {
			t.Errorf("IsProtected(%q) = %v, want %v", tt.path, got, tt.protected)
		}
		if got := IsAllowed(policy, tt.path); got != tt.allowed {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.path, got, tt.allowed)
		}
	}
}

func TestRemoveOutsideRoot(t *testing.T) {
	root := t.TempDir()
	policy := ProjectPolicy(root)
	policy.AllowPrefixes = append(policy.AllowPrefixes, os.TempDir())

	other := t.TempDir()
	if err := RemoveAll(policy, other); err == nil {
		t.Error("expected RemoveAll to refuse a path outside the project")
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("expected %s to survive: %v", other, err)
	}
}

func TestRemoveAllowedFile(t *testing.T) {
	root := t.TempDir()
	gemspec := filepath.Join(root, "gcloud.gemspec")
	if err := os.WriteFile(gemspec, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Remove(ProjectPolicy(root), gemspec); err == nil {
		t.Error("expected Remove to refuse a file that is not allowed")
	}

	policy := ProjectPolicy(root).Allow("gcloud.gemspec", "googlecloud.gemspec")
	if err := Remove(policy, gemspec); err != nil {
		t.Errorf("expected Remove to succeed, got: %v", err)
	}
	if _, err := os.Stat(gemspec); !os.IsNotExist(err) {
		t.Errorf("expected %s to be removed", gemspec)
	}
	// missing files are fine
	if err := Remove(policy, filepath.Join(root, "googlecloud.gemspec")); err != nil {
		t.Errorf("expected Remove of a missing file to succeed, got: %v", err)
	}
	if err := Remove(policy.Allow("Manifest"), filepath.Join(root, "Manifest")); err == nil {
		t.Error("expected deny to win over allow")
	}
}
