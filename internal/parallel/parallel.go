// Package parallel runs the embarrassingly parallel loops of the mesh kernels
// on a bounded set of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny loops on the calling goroutine.
const minChunk = 256

// Workers normalizes a requested worker count; n <= 0 means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Chunks returns the number of contiguous chunks For splits n items into.
func Chunks(n, workers int) int {
	workers = Workers(workers)
	if n <= 0 {
		return 0
	}
	c := (n + minChunk - 1) / minChunk
	if c > workers*4 {
		c = workers * 4
	}
	if c < 1 {
		c = 1
	}
	return c
}

// For calls fn(chunk, lo, hi) for disjoint half-open ranges covering [0, n).
// At most workers calls run at once. Chunk boundaries depend only on n and
// workers, so callers that key per-chunk state by chunk index see the same
// layout on every run.
func For(n, workers int, fn func(chunk, lo, hi int)) {
	chunks := Chunks(n, workers)
	if chunks == 0 {
		return
	}
	if chunks == 1 {
		fn(0, 0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(Workers(workers))
	size := (n + chunks - 1) / chunks
	for c := 0; c < chunks; c++ {
		lo := c * size
		hi := lo + size
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		c := c
		g.Go(func() error {
			fn(c, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// Each calls fn(i) for every i in [0, n).
func Each(n, workers int, fn func(i int)) {
	For(n, workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i)
		}
	})
}
