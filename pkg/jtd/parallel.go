package jtd

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// InferParallel infers a schema from docs using up to workers goroutines. Docs
// are split into contiguous partitions, inferred independently and joined,
// which yields the same result as inferring them in sequence. Errors are
// wrapped in a *DocumentError.
func InferParallel(ctx context.Context, docs [][]byte, hints *Hints, workers int, opts ...Option) (*Inferrer, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(docs) {
		workers = max(len(docs), 1)
	}

	size := (len(docs) + workers - 1) / workers
	parts := make([]*Inferrer, 0, workers)
	for start := 0; start < len(docs) || len(parts) == 0; start += size {
		end := min(start+size, len(docs))
		partOpts := append(append([]Option{}, opts...), WithDocumentOffset(uint32(start)))
		parts = append(parts, New(hints, partOpts...))
		if end == len(docs) {
			break
		}
	}

	// Partitions do not cancel each other on a bad document, so the error
	// reported is always the lowest-indexed one, as in a sequential run. A
	// partition stops early once a partition before it has failed.
	errs := make([]error, len(parts))
	var firstFailed atomic.Int64
	firstFailed.Store(int64(len(parts)))
	var g errgroup.Group
	for i, part := range parts {
		start := i * size
		end := min(start+size, len(docs))
		g.Go(func() error {
			for j := start; j < end; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if firstFailed.Load() < int64(i) {
					return nil
				}
				if err := part.InferBytes(docs[j]); err != nil {
					errs[i] = &DocumentError{Index: j, Err: err}
					markFailed(&firstFailed, int64(i))
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for len(parts) > 1 {
		next := parts[:0]
		for i := 0; i < len(parts); i += 2 {
			if i+1 < len(parts) {
				parts[i].Join(parts[i+1])
			}
			next = append(next, parts[i])
		}
		parts = next
	}
	return parts[0], nil
}

func markFailed(first *atomic.Int64, i int64) {
	for {
		cur := first.Load()
		if i >= cur || first.CompareAndSwap(cur, i) {
			return
		}
	}
}
