// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package parallel provides the execution back-ends the build pipeline is
// dispatched over: a sequential executor and a persistent goroutine pool.
//
// Every stage is a data-parallel "for each index" loop. The executor returns
// only when all indices have been processed, so consecutive calls form a full
// barrier between stages.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Executor runs data-parallel loops.
type Executor interface {
	// For calls fn over contiguous chunks covering [0, n). Blocks until done.
	For(n int, fn func(start, end int))
	// ForEach calls fn once for every index in [0, n), distributing indices
	// dynamically. Blocks until done.
	ForEach(n int, fn func(i int))
	// Workers is the maximum number of goroutines used by a single call.
	Workers() int
}

// Sequential runs every loop on the calling goroutine.
type Sequential struct{}

func (Sequential) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	fn(0, n)
}

func (Sequential) ForEach(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

func (Sequential) Workers() int { return 1 }

// Pool is a persistent worker pool. Workers are spawned once and reused
// across builds.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once

	// mu is held for reading while a loop hands out work and for writing by
	// Close, so workC is never closed under a pending send.
	mu     sync.RWMutex
	closed bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers goroutines.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

func (p *Pool) Workers() int {
	return p.numWorkers
}

// Close shuts down the pool. Loops started after Close run sequentially, and
// loops already dispatching finish on the workers. Calling Close multiple times
// is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.workC)
		p.mu.Unlock()
	})
}

// dispatch sends one item per worker built by mk and waits for all of them.
// It reports false, having sent nothing, if the pool is closed.
func (p *Pool) dispatch(workers int, mk func(i int) func()) bool {
	var wg sync.WaitGroup
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return false
	}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		p.workC <- workItem{fn: mk(i), barrier: &wg}
	}
	p.mu.RUnlock()
	wg.Wait()
	return true
}

// For splits [0, n) into one contiguous chunk per worker.
func (p *Pool) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	workers = (n + chunkSize - 1) / chunkSize

	ok := p.dispatch(workers, func(i int) func() {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		return func() { fn(start, end) }
	})
	if !ok {
		fn(0, n)
	}
}

// ForEach hands out indices in small batches through an atomic cursor, which
// balances loops whose per-index cost varies.
func (p *Pool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	batchSize := max(1, min(256, n/(workers*8)))

	var next atomic.Int64
	run := func() {
		for {
			start := int(next.Add(int64(batchSize))) - batchSize
			if start >= n {
				return
			}
			end := min(start+batchSize, n)
			for j := start; j < end; j++ {
				fn(j)
			}
		}
	}
	if !p.dispatch(workers, func(int) func() { return run }) {
		run()
	}
}

// Chunks splits [0, n) into at most e.Workers() contiguous chunks of equal
// size (the last may be shorter). Stages that keep per-chunk scratch space
// iterate chunk indices with ForEach so the split is stable across calls.
func Chunks(e Executor, n int) (count, size int) {
	if n <= 0 {
		return 0, 0
	}
	workers := min(e.Workers(), n)
	if workers <= 1 {
		return 1, n
	}
	size = (n + workers - 1) / workers
	count = (n + size - 1) / size
	return count, size
}
