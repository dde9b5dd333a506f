package workerpool

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrPoolClosed     = errors.New("worker pool is closed")
	ErrInvalidConfig  = errors.New("invalid pool configuration")
	ErrForcedShutdown = errors.New("forced shutdown due to timeout")
)

// JobError wraps a job execution failure.
type JobError struct {
	JobID    string
	WorkerID int
	Err      error
	Stack    string // Stack trace if panic occurred
}

func (e *JobError) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("job %s failed on worker %d with panic: %v\nStack trace:\n%s", e.JobID, e.WorkerID, e.Err, e.Stack)
	}
	return fmt.Sprintf("job %s failed on worker %d: %v", e.JobID, e.WorkerID, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}
