// Package jobs provides scheduled background tasks for the order bot.
//
// Jobs use github.com/robfig/cron/v3 and are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(poller, cfg.PollInterval, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// OrderWatchJob runs the order poller on an "@every <interval>" schedule
// (10 seconds by default). It is Idle between cycles and Polling during one.
//
// # Error Handling
//
// A failed cycle is logged with its cycle_id and the job continues at the
// next tick; there is no retry or backoff. Overlapping ticks are skipped and
// panics are recovered by the cron chain.
package jobs
