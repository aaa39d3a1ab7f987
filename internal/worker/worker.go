// Package worker provides a small bounded fan-out pool. A pool lives for a
// single batch: create, Start, Submit the jobs, Stop. Nothing persists
// across requests.
package worker

import (
	"context"
	"sync"
)

type ProcessFunc[J any] func(ctx context.Context, job J) error

type Pool[J any] struct {
	numWorkers int
	jobs       chan J
	processor  ProcessFunc[J]
	wg         sync.WaitGroup
}

// NewPool creates a pool of numWorkers goroutines reading from a buffered
// job channel. Size the buffer to the batch so Submit never blocks after
// workers have exited on context cancellation.
func NewPool[J any](numWorkers int, bufferSize int, processor ProcessFunc[J]) *Pool[J] {
	return &Pool[J]{
		numWorkers: numWorkers,
		jobs:       make(chan J, bufferSize),
		processor:  processor,
	}
}

func (p *Pool[J]) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool[J]) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			// Processor errors are the processor's problem to report;
			// one failed job must not stop the batch.
			_ = p.processor(ctx, job)
		}
	}
}

func (p *Pool[J]) Submit(job J) {
	p.jobs <- job
}

// Stop closes the job channel and waits for workers to drain it, or to bail
// out early if the context they were started with is done.
func (p *Pool[J]) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
