// Package workerpool provides a fixed-size worker pool for one-shot jobs.
//
// Features:
//   - Fixed number of worker goroutines with stable identities
//   - Unbounded FIFO job queue; Submit never blocks
//   - Two-phase graceful shutdown: close the queue, then join every worker in order
//   - Panic isolation: a panicking job retires its worker, not the process
//   - Lightweight statistics
//   - Zero dependencies (stdlib only)
//
// # Basic Usage
//
//	pool, err := workerpool.NewPool(workerpool.Config{
//	    Workers: 4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Stop()
//
//	// Submit jobs
//	err = pool.Submit(func() {
//	    // Do work
//	})
//
// # Shutdown
//
// Stop closes the queue so workers see that no more work is coming, then
// blocks until every worker goroutine has exited, in construction order.
// Jobs already queued when Stop is called are still executed. Stop is
// idempotent; Submit after Stop returns ErrPoolClosed.
//
// # Limitations
//
// The pool is deliberately minimal: no resizing, no job priorities, no
// cancellation of queued or running jobs, and no backpressure (the queue
// grows without bound). A worker lost to a panicking job is not replaced;
// the pool's effective concurrency drops by one, and if every worker is
// lost, queued jobs are never claimed.
package workerpool
