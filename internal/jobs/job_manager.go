package jobs

import "fmt"

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	autoConfirmationJob *AutoConfirmationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(autoConfirmationJob *AutoConfirmationJob) *JobManager {
	return &JobManager{
		autoConfirmationJob: autoConfirmationJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.autoConfirmationJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto-confirmation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.autoConfirmationJob.Stop()
}
