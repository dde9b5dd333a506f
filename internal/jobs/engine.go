package jobs

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/savegress/taskflow/internal/store"
	"github.com/savegress/taskflow/pkg/models"
	"github.com/savegress/taskflow/pkg/workerpool"
)

const (
	maxSleepDuration = time.Minute
	maxFibonacci     = 90 // fib(93) overflows int64
	cleanupInterval  = time.Hour
)

// Engine accepts background jobs over the API, runs them on the worker
// pool and tracks their lifecycle in the store.
type Engine struct {
	pool      *workerpool.Pool
	store     *store.Store
	retention time.Duration
}

// NewEngine creates a new jobs engine
func NewEngine(pool *workerpool.Pool, st *store.Store, retention time.Duration) *Engine {
	return &Engine{
		pool:      pool,
		store:     st,
		retention: retention,
	}
}

// Start launches the retention cleanup loop. It stops when ctx is done.
func (e *Engine) Start(ctx context.Context) error {
	go e.cleanupLoop(ctx)
	return nil
}

func (e *Engine) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := e.store.Cleanup(ctx, e.retention)
			if err != nil {
				log.Printf("Job cleanup failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Job cleanup removed %d finished jobs", removed)
			}
		}
	}
}

// Submit validates the request, records the job as queued and hands it to
// the pool. The returned record reflects the queued state; execution
// happens later on some worker.
func (e *Engine) Submit(ctx context.Context, req *models.JobRequest) (*models.JobRecord, error) {
	run, err := e.buildRunner(req)
	if err != nil {
		return nil, err
	}

	rec := &models.JobRecord{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Status:      models.JobStatusQueued,
		SubmittedAt: time.Now(),
	}

	if err := e.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record job: %w", err)
	}

	id := rec.ID
	if err := e.pool.Submit(func() {
		e.execute(id, run)
	}); err != nil {
		now := time.Now()
		if markErr := e.store.MarkFailed(context.Background(), id, err.Error(), now); markErr != nil {
			log.Printf("Failed to mark rejected job %s: %v", id, markErr)
		}
		return nil, err
	}

	return rec, nil
}

// execute runs on a pool worker. The store is the only channel back to
// the API; the pool itself sees neither inputs nor outputs.
func (e *Engine) execute(id string, run func() (string, error)) {
	ctx := context.Background()

	if err := e.store.MarkRunning(ctx, id, time.Now()); err != nil {
		log.Printf("Failed to mark job %s running: %v", id, err)
	}

	result, err := run()
	now := time.Now()
	if err != nil {
		if markErr := e.store.MarkFailed(ctx, id, err.Error(), now); markErr != nil {
			log.Printf("Failed to mark job %s failed: %v", id, markErr)
		}
		return
	}
	if markErr := e.store.MarkCompleted(ctx, id, result, now); markErr != nil {
		log.Printf("Failed to mark job %s completed: %v", id, markErr)
	}
}

// buildRunner validates a request and returns the closure to execute
func (e *Engine) buildRunner(req *models.JobRequest) (func() (string, error), error) {
	switch req.Type {
	case models.JobTypeSleep:
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid sleep duration %q: %w", req.Duration, err)
		}
		if d <= 0 || d > maxSleepDuration {
			return nil, fmt.Errorf("sleep duration must be in (0, %v], got %v", maxSleepDuration, d)
		}
		return func() (string, error) {
			time.Sleep(d)
			return fmt.Sprintf("slept %v", d), nil
		}, nil

	case models.JobTypeEcho:
		if req.Message == "" {
			return nil, fmt.Errorf("echo requires a message")
		}
		msg := req.Message
		return func() (string, error) {
			log.Printf("Echo job: %s", msg)
			return msg, nil
		}, nil

	case models.JobTypeFibonacci:
		if req.N < 0 || req.N > maxFibonacci {
			return nil, fmt.Errorf("fibonacci n must be in [0, %d], got %d", maxFibonacci, req.N)
		}
		n := req.N
		return func() (string, error) {
			return strconv.FormatInt(fibonacci(n), 10), nil
		}, nil

	default:
		return nil, fmt.Errorf("unknown job type %q", req.Type)
	}
}

// Get returns one job record
func (e *Engine) Get(ctx context.Context, id string) (*models.JobRecord, error) {
	return e.store.Get(ctx, id)
}

// List returns recent job records, newest first
func (e *Engine) List(ctx context.Context, limit int) ([]*models.JobRecord, error) {
	return e.store.List(ctx, limit)
}

// Counts aggregates job records by status
func (e *Engine) Counts(ctx context.Context) (*models.JobCounts, error) {
	return e.store.Counts(ctx)
}

// PoolStats exposes the worker pool statistics
func (e *Engine) PoolStats() workerpool.Stats {
	return e.pool.Stats()
}

func fibonacci(n int) int64 {
	var a, b int64 = 0, 1
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}
