package workerpool

import (
	"sync"
	"sync/atomic"
	"time"
)

// Pool manages a fixed set of workers sharing one job queue.
type Pool struct {
	config  Config
	queue   *jobQueue
	workers []*worker // Construction order, joined in this order

	closed atomic.Bool
	once   sync.Once // Ensure single shutdown

	// For Wait() implementation
	waitGroup sync.WaitGroup

	// Statistics
	stats *statsCollector
}

// NewPool creates a new worker pool with the given configuration.
// Returns ErrInvalidConfig if the worker count is not positive.
//
// Example:
//
//	pool, err := workerpool.NewPool(workerpool.Config{
//	    Workers:         4,
//	    ShutdownTimeout: 5 * time.Second,
//	})
func NewPool(config Config) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool := &Pool{
		config: config,
		queue:  newJobQueue(),
		stats:  newStatsCollector(),
	}

	pool.workers = make([]*worker, 0, config.Workers)
	for i := 0; i < config.Workers; i++ {
		pool.workers = append(pool.workers, newWorker(i, pool))
	}

	return pool, nil
}

// NewDefaultPool creates a pool with sensible defaults.
// Workers = runtime.NumCPU()
// ShutdownTimeout = 30s
func NewDefaultPool() *Pool {
	pool, _ := NewPool(DefaultConfig())
	return pool
}

// Submit enqueues a job for execution by some idle worker. It never
// blocks: the queue is unbounded. There is no guarantee about when or by
// which worker the job runs, only that jobs are claimed in submission
// order. Returns ErrPoolClosed once shutdown has begun.
func (p *Pool) Submit(fn Job) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.waitGroup.Add(1)
	if !p.queue.push(newJob(fn)) {
		p.waitGroup.Done()
		return ErrPoolClosed
	}
	p.stats.recordJobSubmission()
	return nil
}

// Stop gracefully shuts down the pool in two phases: close the queue
// (the sole signal to workers that no more work is coming), then join
// every worker in construction order. Jobs already queued are executed
// before the workers exit. Stop blocks until all workers have exited, or
// until ShutdownTimeout elapses, in which case it returns
// ErrForcedShutdown and the unjoined workers are leaked. Idempotent.
//
// Example:
//
//	if err := pool.Stop(); err != nil {
//	    log.Printf("Forced shutdown: %v", err)
//	}
func (p *Pool) Stop() error {
	var shutdownErr error

	p.once.Do(func() {
		// Mark as closed so Submit is rejected
		p.closed.Store(true)

		// Phase 1: close the producer side
		p.queue.close()

		// Phase 2: join workers in construction order
		var timeout <-chan time.Time
		if p.config.ShutdownTimeout > 0 {
			timer := time.NewTimer(p.config.ShutdownTimeout)
			defer timer.Stop()
			timeout = timer.C
		}
		for _, w := range p.workers {
			if err := w.join(timeout); err != nil {
				shutdownErr = err
				return
			}
		}
	})

	return shutdownErr
}

// Wait blocks until all submitted jobs have finished executing. It does
// not prevent new submissions; use Stop for shutdown.
func (p *Pool) Wait() {
	p.waitGroup.Wait()
}

// IsClosed returns true if shutdown has begun.
func (p *Pool) IsClosed() bool {
	return p.closed.Load()
}

// NumWorkers returns the configured worker count.
func (p *Pool) NumWorkers() int {
	return p.config.Workers
}

// Stats returns current pool statistics. Safe for concurrent access.
func (p *Pool) Stats() Stats {
	return p.stats.snapshot(p.queue.len())
}

func (p *Pool) reportError(err error) {
	if p.config.ErrorHandler != nil {
		p.config.ErrorHandler(err)
	}
}
