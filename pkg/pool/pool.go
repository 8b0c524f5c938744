// Package pool provides a small worker pool used to parallelize the
// per-validator group operations of the protocol, most notably the pairing
// checks of transcript verification.
package pool

import (
	"runtime"
	"sync"
)

// job asks a worker to evaluate f at a single index and store the result.
type job struct {
	i       int
	f       func(int) interface{}
	results []interface{}
	wg      *sync.WaitGroup
}

func worker(jobs <-chan job) {
	for j := range jobs {
		j.results[j.i] = j.f(j.i)
		j.wg.Done()
	}
}

// Pool is a set of latent workers ready to evaluate functions in parallel.
// Creating one up front avoids spinning up goroutines for every batch of
// pairing checks.
//
// A nil *Pool is valid and evaluates everything on the calling goroutine, so
// callers can thread one through without caring whether parallelism is on.
type Pool struct {
	jobs chan job
}

// NewPool starts a pool with the given number of workers.
// If count <= 0, the number of available CPUs is used.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}

	p := &Pool{jobs: make(chan job)}
	for i := 0; i < count; i++ {
		go worker(p.jobs)
	}
	return p
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	close(p.jobs)
}

// Parallelize evaluates f at every index in [0, count), returning
// [f(0), f(1), …, f(count-1)].
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	results := make([]interface{}, count)

	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		p.jobs <- job{i: i, f: f, results: results, wg: &wg}
	}
	wg.Wait()

	return results
}
