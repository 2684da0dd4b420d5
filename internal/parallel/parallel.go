// Package parallel splits element-wise update loops across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how Range fans work out.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Upper bound on goroutines per call.
	MinChunkSize int  // Minimum elements per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
//
// Optimizer updates are a handful of flops per element, so chunks are kept
// large enough that goroutine startup does not dominate.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Sequential returns a Config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// Range calls fn over contiguous [lo, hi) chunks that together cover [0, n).
//
// Chunks never overlap, so fn may write to disjoint slice ranges without
// locking. Range returns after every chunk has completed.
func Range(n int, cfg Config, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	minChunk := max(cfg.MinChunkSize, 1)
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*minChunk {
		fn(0, n)
		return
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, minChunk)

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}
