package jobs

import (
	"context"
	"log/slog"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/ports"
	"escrow/internal/metrics"

	"github.com/robfig/cron/v3"
)

const (
	autoConfirmLease = "auto-confirm"

	// DefaultAutoConfirmSchedule fires at second zero of every minute.
	DefaultAutoConfirmSchedule = "0 * * * * *"
	DefaultAutoConfirmLeaseTTL = 50 * time.Second
)

type autoConfirmer interface {
	Handle(ctx context.Context, cmd commands.AutoConfirmDeliveriesCommand) (commands.AutoConfirmResult, error)
}

// AutoConfirmationSettings tune the timer. Zero values fall back to the
// defaults.
type AutoConfirmationSettings struct {
	Schedule  string
	BatchSize int
	LeaseTTL  time.Duration
}

// AutoConfirmationJob completes delivered orders whose confirmation window
// closed. Runs never overlap on one instance and the lease keeps other
// instances from running the same sweep at the same time.
type AutoConfirmationJob struct {
	handler  autoConfirmer
	lease    ports.JobLease
	metrics  *metrics.Metrics
	settings AutoConfirmationSettings
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAutoConfirmationJob creates the timer. lease may be nil when the
// service runs as a single instance.
func NewAutoConfirmationJob(
	handler autoConfirmer,
	lease ports.JobLease,
	m *metrics.Metrics,
	settings AutoConfirmationSettings,
	logger *slog.Logger,
) *AutoConfirmationJob {
	if settings.Schedule == "" {
		settings.Schedule = DefaultAutoConfirmSchedule
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = commands.DefaultAutoConfirmBatchSize
	}
	if settings.LeaseTTL <= 0 {
		settings.LeaseTTL = DefaultAutoConfirmLeaseTTL
	}
	return &AutoConfirmationJob{
		handler:  handler,
		lease:    lease,
		metrics:  m,
		settings: settings,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "auto_confirmation_job"),
	}
}

// Start schedules the sweep.
func (j *AutoConfirmationJob) Start() error {
	_, err := j.cron.AddFunc(j.settings.Schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto-confirmation job started", "schedule", j.settings.Schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *AutoConfirmationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto-confirmation job stopped")
}

// RunOnce performs one sweep. It returns a zero result without error when
// another instance holds the lease.
func (j *AutoConfirmationJob) RunOnce(ctx context.Context) (commands.AutoConfirmResult, error) {
	if !j.acquire(ctx) {
		j.metrics.AutoConfirmRuns.WithLabelValues("lease-held").Inc()
		return commands.AutoConfirmResult{}, nil
	}
	defer j.release(ctx)

	cmd, err := commands.NewAutoConfirmDeliveriesCommand(j.settings.BatchSize)
	if err != nil {
		return commands.AutoConfirmResult{}, err
	}

	started := time.Now()
	result, err := j.handler.Handle(ctx, cmd)
	j.metrics.AutoConfirmDuration.Observe(time.Since(started).Seconds())
	j.metrics.AutoConfirmedOrders.Add(float64(result.Completed))
	j.metrics.AutoConfirmSkipped.Add(float64(result.Skipped))
	j.metrics.AutoConfirmFailed.Add(float64(result.Failed))

	if err != nil {
		j.metrics.AutoConfirmRuns.WithLabelValues("failed").Inc()
		j.logger.ErrorContext(ctx, "Auto-confirmation run failed",
			"due", result.Due, "completed", result.Completed, "skipped", result.Skipped, "failed", result.Failed, "error", err)
		return result, err
	}

	if result.Failed > 0 {
		j.metrics.AutoConfirmRuns.WithLabelValues("partial").Inc()
		j.logger.WarnContext(ctx, "Auto-confirmation run left orders unconfirmed",
			"due", result.Due, "completed", result.Completed, "skipped", result.Skipped, "failed", result.Failed)
		return result, nil
	}

	j.metrics.AutoConfirmRuns.WithLabelValues("ok").Inc()
	if result.Due > 0 {
		j.logger.InfoContext(ctx, "Auto-confirmed deliveries",
			"due", result.Due, "completed", result.Completed, "skipped", result.Skipped)
	}
	return result, nil
}

// acquire treats an unreachable lease store as free: the order update and
// ledger idempotency keep a double sweep harmless.
func (j *AutoConfirmationJob) acquire(ctx context.Context) bool {
	if j.lease == nil {
		return true
	}
	ok, err := j.lease.TryAcquire(ctx, autoConfirmLease, j.settings.LeaseTTL)
	if err != nil {
		j.logger.WarnContext(ctx, "Lease unavailable, running unguarded", "error", err)
		return true
	}
	return ok
}

func (j *AutoConfirmationJob) release(ctx context.Context) {
	if j.lease == nil {
		return
	}
	if err := j.lease.Release(ctx, autoConfirmLease); err != nil {
		j.logger.WarnContext(ctx, "Lease release failed", "error", err)
	}
}
