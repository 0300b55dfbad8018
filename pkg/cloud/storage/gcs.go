// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/palladius/gcloud/pkg/constants"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStore keeps artifacts in a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

func NewGCSStore(ctx context.Context, bucket string, opts Options) (*GCSStore, error) {
	clientOpts := []option.ClientOption{
		option.WithScopes(constants.StorageScope),
		option.WithUserAgent(constants.UserAgent),
	}
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucket)}, nil
}

func (g *GCSStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) error {
	w := g.bucket.Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload gs://%s/%s: %w", w.Bucket, key, err)
	}
	return w.Close()
}

func (g *GCSStore) Get(ctx context.Context, key string, w io.Writer) error {
	r, err := g.bucket.Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = io.Copy(w, r)
	return err
}

func objectFromAttrs(attrs *storage.ObjectAttrs) Object {
	return Object{
		Key:         attrs.Name,
		Size:        attrs.Size,
		Updated:     attrs.Updated,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
	}
}

func (g *GCSStore) Stat(ctx context.Context, key string) (*Object, error) {
	attrs, err := g.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	obj := objectFromAttrs(attrs)
	return &obj, nil
}

func (g *GCSStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	it := g.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, objectFromAttrs(attrs))
	}
}

func (g *GCSStore) Delete(ctx context.Context, key string) error {
	err := g.bucket.Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}

func (*GCSStore) Scheme() Scheme { return SchemeGCS }

func (g *GCSStore) Close() error {
	return g.client.Close()
}
