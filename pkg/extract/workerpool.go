package extract

import (
	"context"
	"sync"
)

// Job is one extraction task. The returned error travels back to the
// submitter through whatever state the closure captures; the pool itself
// never inspects it.
type Job func(ctx context.Context) error

// WorkerPool runs jobs on a fixed number of goroutines. Extraction work is
// CPU-bound on in-memory text, so the pool is intentionally small and
// static; there is no dynamic sizing.
type WorkerPool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	closeMu sync.Mutex
	closed  bool
}

// NewWorkerPool sizes a pool. Non-positive arguments fall back to one
// worker and a queue of twice the worker count.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start launches the workers. Each drains the queue until Close, or bails
// out early when ctx is canceled, leaving queued jobs unexecuted.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					// The job reports its result through captured state.
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking when the queue is full.
// After Close it fails with ErrPoolClosed.
func (p *WorkerPool) Submit(job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- job
	return nil
}

// SubmitCtx enqueues a job but returns promptly when ctx is canceled.
func (p *WorkerPool) SubmitCtx(ctx context.Context, job Job) error {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return ErrPoolClosed
	}
	ch := p.jobs
	p.closeMu.Unlock()

	select {
	case ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close seals the queue and blocks until every worker has returned.
// Safe to call more than once.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}

// ErrPoolClosed reports a submission against a sealed pool.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError is the typed error for pool misuse.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
