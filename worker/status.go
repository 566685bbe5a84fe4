package worker

import (
	"movehub-backend/models"
	"sync"
	"time"
)

// StatusManager records the outcome of the last run of each job
type StatusManager struct {
	mu   sync.RWMutex
	jobs map[string]models.JobResult
	now  func() time.Time
}

func NewStatusManager() *StatusManager {
	return &StatusManager{
		jobs: make(map[string]models.JobResult),
		now:  time.Now,
	}
}

// Begin marks job as running and returns its start time
func (sm *StatusManager) Begin(job string) time.Time {
	start := sm.now()
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.jobs[job] = models.JobResult{
		Job:       job,
		Status:    models.StatusRunning,
		StartTime: start,
	}
	return start
}

// Finish records the end of a run. A nil err with skipped set means the lock was held elsewhere.
func (sm *StatusManager) Finish(job string, start time.Time, processed, affected int, skipped bool, err error) {
	end := sm.now()
	result := models.JobResult{
		Job:       job,
		Status:    models.StatusCompleted,
		StartTime: start,
		EndTime:   &end,
		Duration:  end.Sub(start),
		Processed: processed,
		Affected:  affected,
	}
	switch {
	case err != nil:
		result.Status = models.StatusFailed
		result.ErrorMessage = err.Error()
	case skipped:
		result.Status = models.StatusSkipped
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.jobs[job] = result
}

// Snapshot copies the recorded results
func (sm *StatusManager) Snapshot() map[string]models.JobResult {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make(map[string]models.JobResult, len(sm.jobs))
	for k, v := range sm.jobs {
		out[k] = v
	}
	return out
}
