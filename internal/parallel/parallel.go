// Package parallel splits index ranges across goroutines for blocked backends.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
	BlockSize  int  // Minimum indices per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		BlockSize:  8,
	}
}

// Serial returns a config that never spawns goroutines.
func Serial() Config {
	return Config{BlockSize: 1}
}

// Blocks calls f(start, end) over disjoint ranges covering [0, n) and waits for
// all of them. Ranges run sequentially when parallelism is disabled or n fits in
// one block.
func Blocks(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	block := max(cfg.BlockSize, 1)
	if !cfg.Enabled || cfg.NumWorkers < 2 || n <= block {
		f(0, n)
		return
	}

	size := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, block)
	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n), split into blocks as Blocks does.
func For(n int, f func(i int), cfg Config) {
	Blocks(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}
