package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"orderbot/internal/core/application/watch"

	"github.com/robfig/cron/v3"
)

// DefaultPollInterval is how often the order table is checked.
const DefaultPollInterval = 10 * time.Second

// State is the lifecycle state of the watch job.
type State int32

const (
	Idle State = iota
	Polling
)

func (s State) String() string {
	if s == Polling {
		return "polling"
	}
	return "idle"
}

// CycleRunner runs one poll cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (watch.CycleReport, error)
}

// OrderWatchJob runs the order poller on a fixed interval. A cycle that is
// still running when the next tick fires causes that tick to be skipped.
// Stop cancels future cycles and waits for the running one to finish, so a
// cycle is never interrupted halfway.
type OrderWatchJob struct {
	runner   CycleRunner
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	state   atomic.Int32
	ctx     context.Context
	cancel  context.CancelFunc
	started sync.Once
}

// NewOrderWatchJob creates the job. A non-positive interval falls back to DefaultPollInterval.
func NewOrderWatchJob(runner CycleRunner, interval time.Duration, logger *slog.Logger) *OrderWatchJob {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger = logger.With("component", "order_watch_job")
	cronLogger := slogCronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &OrderWatchJob{
		runner:   runner,
		interval: interval,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns Polling while a cycle runs and Idle otherwise.
func (j *OrderWatchJob) State() State {
	return State(j.state.Load())
}

// Start schedules the poller every interval.
func (j *OrderWatchJob) Start() error {
	var err error
	j.started.Do(func() {
		spec := fmt.Sprintf("@every %s", j.interval)
		if _, err = j.cron.AddFunc(spec, func() { j.RunOnce(j.ctx) }); err != nil {
			return
		}
		j.cron.Start()
		j.logger.InfoContext(j.ctx, "Order watch job started", "interval", j.interval.String())
	})
	return err
}

// RunOnce runs a single cycle unless ctx is already cancelled. Cycle errors
// are logged and not returned: the next cycle simply tries again.
func (j *OrderWatchJob) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	j.state.Store(int32(Polling))
	defer j.state.Store(int32(Idle))

	// The cycle itself is not cancellable; cancellation is checked above.
	cycleCtx := context.WithoutCancel(ctx)

	report, err := j.runner.RunCycle(cycleCtx)
	if err != nil {
		j.logger.ErrorContext(cycleCtx, "Order watch cycle failed", "cycle_id", report.CycleID, "error", err)
		return
	}

	if report.NewOrderID != "" || report.Overdue > 0 {
		j.logger.InfoContext(cycleCtx, "Order watch cycle finished",
			"cycle_id", report.CycleID,
			"new_order_id", report.NewOrderID,
			"overdue", report.Overdue,
			"notified", report.Notified,
		)
	}
}

// Stop prevents further cycles and blocks until a running cycle completes.
func (j *OrderWatchJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order watch job stopped")
}
