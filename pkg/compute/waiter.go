// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Clock abstracts time for polling loops.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Waiter polls operations until they are done.
type Waiter struct {
	Service Service
	Poll    time.Duration
	MaxWait time.Duration
	Clock   Clock
	Log     *zap.Logger
}

func NewWaiter(svc Service, poll, maxWait time.Duration, log *zap.Logger) *Waiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Waiter{Service: svc, Poll: poll, MaxWait: maxWait, Clock: RealClock, Log: log}
}

func (w *Waiter) clock() Clock {
	if w.Clock == nil {
		return RealClock
	}
	return w.Clock
}

// Wait polls result until its status is DONE or MaxWait elapses, in which
// case the last state is returned with a warning. A finished, error-free,
// non-delete operation is returned together with its target resource.
// Non-operations are returned as is.
func (w *Waiter) Wait(ctx context.Context, result Resource, collection string) ([]Resource, error) {
	if !result.IsOperation() {
		return []Resource{result}, nil
	}

	clock := w.clock()
	start := clock.Now()
	opType := result.Field("operationType")
	target := DenormalizeResourceName(result.Field("targetLink"))
	qualified := target
	if collection != "" {
		qualified = fmt.Sprintf("%s %s", Singularize(collection), target)
	}

	for result.Status() != StatusDone {
		if clock.Now().Sub(start) >= w.MaxWait {
			w.Log.Warn(fmt.Sprintf("Timeout reached. %s of %s has not yet completed. The operation (%s) is still %s.",
				opType, target, result.Name(), result.Status()))
			return []Resource{result}, nil
		}

		w.Log.Info(fmt.Sprintf("Waiting for %s of %s. Sleeping for %ss.", opType, qualified, formatSeconds(w.Poll)))
		if err := clock.Sleep(ctx, w.Poll); err != nil {
			return nil, err
		}

		zone := w.Service.Namer().ZoneFromSelfLink(result.SelfLink())
		polled, err := w.Service.Get(ctx, Operations, zone, result.Name())
		if err != nil {
			return nil, err
		}
		result = polled
	}

	if opType != "delete" && !result.HasErrorField() {
		resource, err := w.Service.Fetch(ctx, result.Field("targetLink"))
		if err != nil {
			w.Log.Debug("could not fetch operation target", zap.String("target", target), zap.Error(err))
			return []Resource{result}, nil
		}
		return []Resource{result, resource}, nil
	}
	return []Resource{result}, nil
}

// WaitResult waits on a single result and wraps an [operation, resource]
// pair into a client-side list.
func (w *Waiter) WaitResult(ctx context.Context, result Resource, collection string) (Resource, error) {
	results, err := w.Wait(ctx, result, collection)
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return MakeListResult(results, "operationList"), nil
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%g", d.Seconds())
}
