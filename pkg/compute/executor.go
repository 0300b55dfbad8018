// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"
	"io"

	"github.com/palladius/gcloud/pkg/constants"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Request is one API call of a batch.
type Request func(ctx context.Context) (Resource, error)

// Executor runs batches of requests concurrently. When Waiter is set every
// returned operation is polled until it completes.
type Executor struct {
	Concurrency int
	Waiter      *Waiter
	// Progress, when a terminal, shows a progress bar for the batch.
	Progress io.Writer
}

// Execute runs all requests and returns the flattened results in request
// order along with every error. A failing request does not cancel others.
func (e *Executor) Execute(ctx context.Context, requests []Request, collection string) ([]Resource, []error) {
	limit := e.Concurrency
	if limit < 1 {
		limit = constants.DefaultConcurrentOperations
	}
	sem := semaphore.NewWeighted(int64(limit))
	bar := newProgressBar(e.Progress, collection, len(requests))

	results := make([][]Resource, len(requests))
	errs := make([]error, len(requests))

	var group errgroup.Group
	for i, request := range requests {
		group.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return nil
			}
			defer sem.Release(1)
			if bar != nil {
				defer func() { _ = bar.Add(1) }()
			}

			result, err := request(ctx)
			if err != nil {
				errs[i] = err
				return nil
			}
			if e.Waiter == nil {
				results[i] = []Resource{result}
				return nil
			}
			waited, err := e.Waiter.Wait(ctx, result, collection)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = waited
			return nil
		})
	}
	_ = group.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	var (
		flat   []Resource
		failed []error
	)
	for i := range requests {
		if errs[i] != nil {
			failed = append(failed, errs[i])
			continue
		}
		flat = append(flat, results[i]...)
	}
	return flat, failed
}
