package models

import "time"

// WorkerStatus represents the state of a background job
type WorkerStatus string

const (
	StatusIdle      WorkerStatus = "idle"
	StatusRunning   WorkerStatus = "running"
	StatusCompleted WorkerStatus = "completed"
	StatusSkipped   WorkerStatus = "skipped"
	StatusFailed    WorkerStatus = "failed"
)

// JobResult holds the outcome of the last run of a background job
type JobResult struct {
	Job          string        `json:"job"`
	Status       WorkerStatus  `json:"status"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	Duration     time.Duration `json:"duration"`
	Processed    int           `json:"processed"`
	Affected     int           `json:"affected"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// WorkerState is the health view of the worker exposed on /health
type WorkerState struct {
	OwnerID   string               `json:"owner_id"`
	IsRunning bool                 `json:"is_running"`
	Schedule  string               `json:"schedule"`
	Jobs      map[string]JobResult `json:"jobs"`
}

// LockInfo represents file lock information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// TableStatus is the result of ensuring one table exists
type TableStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // EXISTS, CREATED, FAILED
	Indexes int    `json:"indexes"`
	Error   string `json:"error,omitempty"`
}

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status    string            `json:"status"` // ok or degraded
	App       string            `json:"app"`
	Version   string            `json:"version"`
	Env       string            `json:"env"`
	Tables    map[string]string `json:"tables"`
	Worker    *WorkerState      `json:"worker,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}
