package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit caps in-flight calls when the caller passes a non-positive limit.
const DefaultLimit = 5

// Map calls fn once for every index in [0, n) with at most limit calls running
// at a time, and returns the results addressed by index. fn reports failures
// through its result value; Map itself never aborts early, so every index gets
// exactly one result.
func Map[T any](ctx context.Context, limit, n int, fn func(ctx context.Context, i int) T) []T {
	results := make([]T, n)
	if n == 0 {
		return results
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			// Each goroutine owns results[i]; no other writer touches it.
			results[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ForEach is Map for calls that only report an error. Unlike Map it stops
// scheduling new calls after the first failure and returns that error.
func ForEach(ctx context.Context, limit, n int, fn func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = DefaultLimit
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
