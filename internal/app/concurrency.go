package app

import (
	"context"
	"sync"
)

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartialLimit runs fns with at most limit in flight and collects every
// result, in order. One failure does not cancel the others.
//
// Example:
//
//	results := ParallelPartialLimit(ctx, 4, submitFuncs...)
//	if n := CountFailed(results); n > 0 {
//	    logger.Warn("submits failed", slog.Int("failed", n))
//	}
func ParallelPartialLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	if limit < 1 {
		limit = 1
	}

	results := make([]PartialResult[T], len(fns))
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup

	for i, fn := range fns {
		wg.Go(func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = PartialResult[T]{Err: ctx.Err()}
				return
			}

			defer func() { <-sem }()

			value, err := fn(ctx)
			results[i] = PartialResult[T]{Value: value, Err: err}
		})
	}

	wg.Wait()

	return results
}

// CountFailed returns how many results carry an error.
func CountFailed[T any](results []PartialResult[T]) int {
	n := 0

	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}

	return n
}

// FirstError returns the first error in results, or nil.
func FirstError[T any](results []PartialResult[T]) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}

	return nil
}
