// Package concurrency implements the bounded-fan-out helper used for
// batched document persistence and batched candidate hydration, generalized
// from the teacher module's goroutine-plus-channel BaseEmbedder.EmbedBatch
// into a reusable, context-cancellable primitive built on errgroup.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEachBatch splits items into chunks of batchSize and runs fn over each
// chunk, with at most maxConcurrentBatches chunks in flight at once. It
// returns the first error encountered; ctx is canceled for the remaining
// in-flight batches as soon as one fails, but batches that already started
// their I/O are allowed to finish (no torn writes).
func ForEachBatch[T any](ctx context.Context, items []T, batchSize, maxConcurrentBatches int, fn func(ctx context.Context, batch []T) error) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(items)
	}
	if maxConcurrentBatches <= 0 {
		maxConcurrentBatches = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		g.Go(func() error {
			return fn(gctx, batch)
		})
	}

	return g.Wait()
}
