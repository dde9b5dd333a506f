package workerpool

import (
	"sync/atomic"
	"time"
)

// Stats contains pool statistics
type Stats struct {
	ActiveWorkers  int           // Workers still running their claim loop
	QueuedJobs     int           // Jobs waiting in queue
	SubmittedJobs  int64         // Total accepted submissions
	CompletedJobs  int64         // Total executed jobs
	AverageLatency time.Duration // Average job execution time
	Uptime         time.Duration // Pool uptime
}

// statsCollector holds internal statistics
type statsCollector struct {
	activeWorkers atomic.Int32
	submittedJobs atomic.Int64
	completedJobs atomic.Int64
	totalLatency  atomic.Int64 // in nanoseconds
	startTime     time.Time
}

func newStatsCollector() *statsCollector {
	return &statsCollector{
		startTime: time.Now(),
	}
}

// snapshot returns a snapshot of current statistics
func (s *statsCollector) snapshot(queueLen int) Stats {
	completed := s.completedJobs.Load()
	var avgLatency time.Duration
	if completed > 0 {
		avgLatency = time.Duration(s.totalLatency.Load() / completed)
	}

	return Stats{
		ActiveWorkers:  int(s.activeWorkers.Load()),
		QueuedJobs:     queueLen,
		SubmittedJobs:  s.submittedJobs.Load(),
		CompletedJobs:  completed,
		AverageLatency: avgLatency,
		Uptime:         time.Since(s.startTime),
	}
}

func (s *statsCollector) recordJobSubmission() {
	s.submittedJobs.Add(1)
}

func (s *statsCollector) recordJobCompletion(duration time.Duration) {
	s.completedJobs.Add(1)
	s.totalLatency.Add(int64(duration))
}

func (s *statsCollector) incActiveWorkers() {
	s.activeWorkers.Add(1)
}

func (s *statsCollector) decActiveWorkers() {
	s.activeWorkers.Add(-1)
}
