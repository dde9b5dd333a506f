package models

import "time"

// JobStatus represents the lifecycle state of a submitted job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job type names accepted by the jobs API
const (
	JobTypeSleep     = "sleep"
	JobTypeEcho      = "echo"
	JobTypeFibonacci = "fibonacci"
)

// JobRequest is a job submission
type JobRequest struct {
	Type     string `json:"type"`               // sleep, echo, fibonacci
	Duration string `json:"duration,omitempty"` // sleep: how long (e.g. "250ms")
	Message  string `json:"message,omitempty"`  // echo: what to log
	N        int    `json:"n,omitempty"`        // fibonacci: which number
}

// JobRecord tracks one submitted job
type JobRecord struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      JobStatus  `json:"status"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobCounts aggregates job records by status
type JobCounts struct {
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
