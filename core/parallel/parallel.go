// Package parallel fans independent work out over goroutines. linfit uses it
// for hyperparameter sweeps, where every task owns its own weight vector and
// random generator so tasks share no mutable state.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Workers returns n when positive, otherwise the number of CPUs.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Parallelize splits [0, items) into contiguous chunks, one per worker, and
// runs fn on each chunk concurrently. workers <= 0 means one per CPU.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := Workers(workers)
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so the last chunk absorbs the remainder
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items <= threshold.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, workers, fn)
}

// ForEach calls fn(ctx, i) for every i in [0, items) using at most workers
// goroutines. The first error cancels the context passed to the remaining
// calls and is returned. Items not yet started when ctx is done are skipped.
func ForEach(ctx context.Context, items, workers int, fn func(ctx context.Context, i int) error) error {
	if items <= 0 {
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	Parallelize(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := fn(ctx, i); err != nil {
				fail(err)
				return
			}
		}
	})

	return firstErr
}
