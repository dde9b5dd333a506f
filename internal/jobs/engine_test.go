package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/savegress/taskflow/internal/store"
	"github.com/savegress/taskflow/pkg/models"
	"github.com/savegress/taskflow/pkg/workerpool"
)

func newTestEngine(t *testing.T) (*Engine, *workerpool.Pool) {
	t.Helper()

	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	pool, err := workerpool.NewPool(workerpool.Config{Workers: 2})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Stop() })

	return NewEngine(pool, st, time.Hour), pool
}

func waitForFinished(t *testing.T, e *Engine, id string) *models.JobRecord {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec, err := e.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("failed to get job %s: %v", id, err)
		}
		if rec.Status == models.JobStatusCompleted || rec.Status == models.JobStatusFailed {
			return rec
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return nil
}

func TestEngine_SubmitEcho(t *testing.T) {
	e, _ := newTestEngine(t)

	rec, err := e.Submit(context.Background(), &models.JobRequest{
		Type:    models.JobTypeEcho,
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected a job id")
	}
	if rec.Status != models.JobStatusQueued {
		t.Errorf("expected initial status 'queued', got '%s'", rec.Status)
	}

	final := waitForFinished(t, e, rec.ID)
	if final.Status != models.JobStatusCompleted {
		t.Errorf("expected status 'completed', got '%s' (%s)", final.Status, final.Error)
	}
	if final.Result != "hello" {
		t.Errorf("expected result 'hello', got '%s'", final.Result)
	}
	if final.StartedAt == nil || final.CompletedAt == nil {
		t.Error("expected started_at and completed_at to be set")
	}
}

func TestEngine_SubmitSleep(t *testing.T) {
	e, _ := newTestEngine(t)

	rec, err := e.Submit(context.Background(), &models.JobRequest{
		Type:     models.JobTypeSleep,
		Duration: "20ms",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	final := waitForFinished(t, e, rec.ID)
	if final.Status != models.JobStatusCompleted {
		t.Errorf("expected status 'completed', got '%s' (%s)", final.Status, final.Error)
	}
	if final.Result != "slept 20ms" {
		t.Errorf("expected result 'slept 20ms', got '%s'", final.Result)
	}
}

func TestEngine_SubmitFibonacci(t *testing.T) {
	e, _ := newTestEngine(t)

	rec, err := e.Submit(context.Background(), &models.JobRequest{
		Type: models.JobTypeFibonacci,
		N:    10,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	final := waitForFinished(t, e, rec.ID)
	if final.Status != models.JobStatusCompleted {
		t.Errorf("expected status 'completed', got '%s' (%s)", final.Status, final.Error)
	}
	if final.Result != "55" {
		t.Errorf("expected fib(10)=55, got '%s'", final.Result)
	}
}

func TestEngine_SubmitValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.JobRequest
	}{
		{"unknown type", &models.JobRequest{Type: "explode"}},
		{"empty type", &models.JobRequest{}},
		{"bad sleep duration", &models.JobRequest{Type: models.JobTypeSleep, Duration: "soon"}},
		{"negative sleep duration", &models.JobRequest{Type: models.JobTypeSleep, Duration: "-1s"}},
		{"excessive sleep duration", &models.JobRequest{Type: models.JobTypeSleep, Duration: "2h"}},
		{"echo without message", &models.JobRequest{Type: models.JobTypeEcho}},
		{"negative fibonacci", &models.JobRequest{Type: models.JobTypeFibonacci, N: -1}},
		{"excessive fibonacci", &models.JobRequest{Type: models.JobTypeFibonacci, N: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Submit(ctx, tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	// Rejected requests leave no record behind
	records, err := e.List(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list jobs: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records after rejected submissions, got %d", len(records))
	}
}

func TestEngine_SubmitAfterPoolStop(t *testing.T) {
	e, pool := newTestEngine(t)
	ctx := context.Background()

	if err := pool.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	rec, err := e.Submit(ctx, &models.JobRequest{
		Type:    models.JobTypeEcho,
		Message: "too late",
	})
	if err == nil {
		t.Fatal("expected error submitting after pool stop")
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}

	// The rejected job is recorded as failed
	records, listErr := e.List(ctx, 0)
	if listErr != nil {
		t.Fatalf("failed to list jobs: %v", listErr)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != models.JobStatusFailed {
		t.Errorf("expected status 'failed', got '%s'", records[0].Status)
	}
}

func TestEngine_Counts(t *testing.T) {
	e, pool := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := e.Submit(ctx, &models.JobRequest{Type: models.JobTypeFibonacci, N: 20}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	pool.Wait()

	counts, err := e.Counts(ctx)
	if err != nil {
		t.Fatalf("failed to count jobs: %v", err)
	}
	if counts.Completed != 3 {
		t.Errorf("expected 3 completed, got %d", counts.Completed)
	}
	if counts.Failed != 0 {
		t.Errorf("expected 0 failed, got %d", counts.Failed)
	}
}

func TestEngine_PoolStats(t *testing.T) {
	e, pool := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Submit(ctx, &models.JobRequest{Type: models.JobTypeEcho, Message: "x"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	pool.Wait()

	stats := e.PoolStats()
	if stats.SubmittedJobs != 1 {
		t.Errorf("expected 1 submitted job, got %d", stats.SubmittedJobs)
	}
	if stats.CompletedJobs != 1 {
		t.Errorf("expected 1 completed job, got %d", stats.CompletedJobs)
	}
	if stats.ActiveWorkers != 2 {
		t.Errorf("expected 2 active workers, got %d", stats.ActiveWorkers)
	}
}

func TestFibonacci(t *testing.T) {
	tests := []struct {
		n    int
		want int64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{10, 55},
		{50, 12586269025},
		{90, 2880067194370816120},
	}

	for _, tt := range tests {
		if got := fibonacci(tt.n); got != tt.want {
			t.Errorf("fibonacci(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
