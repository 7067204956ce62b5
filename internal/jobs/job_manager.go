package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	orderWatchJob *OrderWatchJob
}

// NewJobManager creates a job manager running the order poller every interval.
func NewJobManager(poller CycleRunner, interval time.Duration, logger *slog.Logger) *JobManager {
	return &JobManager{
		orderWatchJob: NewOrderWatchJob(poller, interval, logger),
	}
}

// OrderWatchJob returns the poller job, e.g. to inspect its state.
func (jm *JobManager) OrderWatchJob() *OrderWatchJob {
	return jm.orderWatchJob
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.orderWatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start order watch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderWatchJob.Stop()
}
