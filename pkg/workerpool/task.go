package workerpool

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Job is a one-shot unit of work. It carries no inputs or outputs visible
// to the pool and is executed exactly once, on exactly one worker.
type Job func()

// job is the queued form of a Job, tagged for error reporting.
type job struct {
	id      string
	fn      Job
	created time.Time
}

var jobCounter atomic.Uint64

// generateJobID generates a unique job ID
func generateJobID() string {
	id := jobCounter.Add(1)
	return fmt.Sprintf("job-%d", id)
}

func newJob(fn Job) *job {
	return &job{
		id:      generateJobID(),
		fn:      fn,
		created: time.Now(),
	}
}
