package workerpool

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestJobQueue_FIFOOrder(t *testing.T) {
	t.Parallel()

	q := newJobQueue()
	for i := 0; i < 5; i++ {
		if !q.push(newJob(func() {})) {
			t.Fatalf("push %d failed on open queue", i)
		}
	}

	if q.len() != 5 {
		t.Errorf("Expected queue length 5, got %d", q.len())
	}

	var prev uint64
	for i := 0; i < 5; i++ {
		j, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d returned closure signal on non-empty queue", i)
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(j.id, "job-"), 10, 64)
		if err != nil {
			t.Fatalf("unexpected job id %q: %v", j.id, err)
		}
		if i > 0 && id <= prev {
			t.Errorf("Jobs delivered out of submission order: %d after %d", id, prev)
		}
		prev = id
	}
}

func TestJobQueue_PopBlocksUntilPush(t *testing.T) {
	t.Parallel()

	q := newJobQueue()
	got := make(chan *job, 1)

	go func() {
		j, ok := q.pop()
		if ok {
			got <- j
		}
	}()

	select {
	case <-got:
		t.Fatal("pop returned before any push")
	case <-time.After(20 * time.Millisecond):
	}

	q.push(newJob(func() {}))

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestJobQueue_CloseWakesWaiters(t *testing.T) {
	t.Parallel()

	q := newJobQueue()
	done := make(chan bool, 3)

	for i := 0; i < 3; i++ {
		go func() {
			_, ok := q.pop()
			done <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.close()

	for i := 0; i < 3; i++ {
		select {
		case ok := <-done:
			if ok {
				t.Error("Expected closure signal, got a job")
			}
		case <-time.After(time.Second):
			t.Fatal("Waiter not woken by close")
		}
	}
}

func TestJobQueue_PushAfterClose(t *testing.T) {
	t.Parallel()

	q := newJobQueue()
	q.close()
	// Idempotent
	q.close()

	if q.push(newJob(func() {})) {
		t.Error("Expected push to fail after close")
	}
}

func TestJobQueue_DrainsAfterClose(t *testing.T) {
	t.Parallel()

	q := newJobQueue()
	for i := 0; i < 3; i++ {
		q.push(newJob(func() {}))
	}
	q.close()

	// Jobs queued before closure remain claimable
	for i := 0; i < 3; i++ {
		if _, ok := q.pop(); !ok {
			t.Fatalf("Expected queued job %d after close, got closure signal", i)
		}
	}
	if _, ok := q.pop(); ok {
		t.Error("Expected closure signal once drained")
	}
}
