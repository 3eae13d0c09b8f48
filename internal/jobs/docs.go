// Package jobs provides scheduled background tasks for the escrow service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AutoConfirmationJob - completes delivered orders whose buyer confirmation
// window has closed, through the same release path a buyer confirmation uses.
//
// # Usage
//
//	job := jobs.NewAutoConfirmationJob(handler, lease, metrics, jobs.AutoConfirmationSettings{}, logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule uses the six-field cron syntax (seconds first) and defaults to
// once a minute. A run that is still going when the next one fires is skipped.
//
// # Error Handling
//
// - Orders changed by a buyer or a dispute during a sweep are counted as skipped
// - Any other failure ends the run and is logged; the next run picks the order up again
// - An unreachable lease store does not stop the sweep
package jobs
