// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage stores released artifacts in a bucket (GCS or S3) or a
// local directory addressed by a URI.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"
)

// Scheme is the URI scheme naming a backend.
type Scheme string

const (
	SchemeGCS   Scheme = "gs"
	SchemeS3    Scheme = "s3"
	SchemeLocal Scheme = "file"
)

var ErrNotFound = errors.New("object not found")

// Object describes a stored artifact.
type Object struct {
	Key         string
	Size        int64
	Updated     time.Time
	ContentType string
	Metadata    map[string]string
}

type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Store is implemented by every backend. Keys are slash separated.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) error
	Get(ctx context.Context, key string, w io.Writer) error
	// Stat returns ErrNotFound for missing keys.
	Stat(ctx context.Context, key string) (*Object, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
	Scheme() Scheme
	Close() error
}

// Location is a parsed release URI such as gs://bucket/gems.
type Location struct {
	Scheme Scheme
	// Bucket is the bucket name, or the directory for file URIs.
	Bucket string
	Prefix string
}

// Key returns the key of name below the location prefix.
func (l Location) Key(name string) string {
	if l.Prefix == "" {
		return name
	}
	return path.Join(l.Prefix, name)
}

func (l Location) String() string {
	if l.Scheme == SchemeLocal {
		return "file://" + l.Bucket
	}
	if l.Prefix == "" {
		return fmt.Sprintf("%s://%s", l.Scheme, l.Bucket)
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Prefix)
}

// ParseURI parses gs://bucket/prefix, s3://bucket/prefix and
// file:///dir URIs.
func ParseURI(uri string) (Location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return Location{}, fmt.Errorf("invalid storage uri %q: missing scheme", uri)
	}
	switch Scheme(scheme) {
	case SchemeGCS, SchemeS3:
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("invalid storage uri %q: missing bucket", uri)
		}
		return Location{Scheme: Scheme(scheme), Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	case SchemeLocal:
		if rest == "" {
			return Location{}, fmt.Errorf("invalid storage uri %q: missing path", uri)
		}
		return Location{Scheme: SchemeLocal, Bucket: rest}, nil
	default:
		return Location{}, fmt.Errorf("unsupported storage scheme: %s", scheme)
	}
}

// Options carries backend specific settings.
type Options struct {
	// CredentialsFile is a service account key for GCS.
	CredentialsFile string

	Region        string
	Endpoint      string
	Profile       string
	AssumeRoleARN string
	PathStyle     bool
}

// Open connects to the backend of loc.
func Open(ctx context.Context, loc Location, opts Options) (Store, error) {
	switch loc.Scheme {
	case SchemeGCS:
		return NewGCSStore(ctx, loc.Bucket, opts)
	case SchemeS3:
		return NewS3Store(ctx, loc.Bucket, opts)
	case SchemeLocal:
		return NewLocalStore(loc.Bucket)
	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", loc.Scheme)
	}
}

// PutFile uploads the file at localPath.
func PutFile(ctx context.Context, s Store, key, localPath string, opts PutOptions) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()
	return s.Put(ctx, key, f, opts)
}

// FileChecksum returns the hex SHA-256 of a file.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
