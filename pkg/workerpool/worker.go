package workerpool

import (
	"fmt"
	"runtime/debug"
	"time"
)

// worker owns one long-lived goroutine that repeatedly claims and runs
// jobs. The done channel is its join handle: closed when the goroutine
// exits, consumed exactly once by Stop.
type worker struct {
	id   int
	pool *Pool
	done chan struct{}
}

func newWorker(id int, pool *Pool) *worker {
	w := &worker{
		id:   id,
		pool: pool,
		done: make(chan struct{}),
	}
	pool.stats.incActiveWorkers()
	go w.loop()
	return w
}

// loop claims and executes jobs until the queue reports closure, or until
// a job panics. A panicking job retires this worker permanently: it is not
// restarted or replaced, and the pool's effective concurrency drops by one.
func (w *worker) loop() {
	defer func() {
		w.pool.stats.decActiveWorkers()
		close(w.done)
	}()

	for {
		j, ok := w.pool.queue.pop()
		if !ok {
			return // Queue closed and drained
		}
		if !w.run(j) {
			return // Job panicked, retire
		}
	}
}

// run executes a single job, recovering a panic only long enough to report
// it through the configured error handler.
func (w *worker) run(j *job) (ok bool) {
	start := time.Now()

	defer w.pool.waitGroup.Done()
	defer func() {
		if r := recover(); r != nil {
			w.pool.reportError(&JobError{
				JobID:    j.id,
				WorkerID: w.id,
				Err:      fmt.Errorf("panic: %v", r),
				Stack:    string(debug.Stack()),
			})
			ok = false
		}
		w.pool.stats.recordJobCompletion(time.Since(start))
	}()

	j.fn()
	return true
}

// join waits for the worker goroutine to exit, consuming the handle so a
// second join is a no-op. Returns ErrForcedShutdown if the timeout channel
// fires first; a nil timeout waits forever.
func (w *worker) join(timeout <-chan time.Time) error {
	if w.done == nil {
		return nil // Already joined
	}
	select {
	case <-w.done:
		w.done = nil
		return nil
	case <-timeout:
		return ErrForcedShutdown
	}
}
