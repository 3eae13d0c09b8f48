package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/jobs"
	"escrow/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAutoConfirmer struct {
	mock.Mock
}

func (m *MockAutoConfirmer) Handle(ctx context.Context, cmd commands.AutoConfirmDeliveriesCommand) (commands.AutoConfirmResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AutoConfirmResult), args.Error(1)
}

type MockJobLease struct {
	mock.Mock
}

func (m *MockJobLease) TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobLease) Release(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func batchOf(n int) any {
	return mock.MatchedBy(func(cmd commands.AutoConfirmDeliveriesCommand) bool { return cmd.BatchSize() == n })
}

func TestAutoConfirmationJob_RunOnce_CompletesUnderLease(t *testing.T) {
	ctx := t.Context()
	handler := new(MockAutoConfirmer)
	lease := new(MockJobLease)
	m := metrics.New(prometheus.NewRegistry())

	mock.InOrder(
		lease.On("TryAcquire", ctx, "auto-confirm", 30*time.Second).Return(true, nil).Once(),
		handler.On("Handle", ctx, batchOf(25)).Return(commands.AutoConfirmResult{Due: 3, Completed: 2, Skipped: 1}, nil).Once(),
		lease.On("Release", ctx, "auto-confirm").Return(nil).Once(),
	)

	job := jobs.NewAutoConfirmationJob(handler, lease, m, jobs.AutoConfirmationSettings{BatchSize: 25, LeaseTTL: 30 * time.Second}, discard())
	result, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, commands.AutoConfirmResult{Due: 3, Completed: 2, Skipped: 1}, result)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AutoConfirmedOrders), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmSkipped), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmRuns.WithLabelValues("ok")), 0)
	handler.AssertExpectations(t)
	lease.AssertExpectations(t)
}

func TestAutoConfirmationJob_RunOnce_SkipsWhenLeaseHeld(t *testing.T) {
	ctx := t.Context()
	handler := new(MockAutoConfirmer)
	lease := new(MockJobLease)
	m := metrics.New(prometheus.NewRegistry())
	lease.On("TryAcquire", ctx, "auto-confirm", jobs.DefaultAutoConfirmLeaseTTL).Return(false, nil).Once()

	job := jobs.NewAutoConfirmationJob(handler, lease, m, jobs.AutoConfirmationSettings{}, discard())
	result, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Zero(t, result)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmRuns.WithLabelValues("lease-held")), 0)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	lease.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestAutoConfirmationJob_RunOnce_RunsWhenLeaseStoreIsDown(t *testing.T) {
	ctx := t.Context()
	handler := new(MockAutoConfirmer)
	lease := new(MockJobLease)
	m := metrics.New(prometheus.NewRegistry())

	lease.On("TryAcquire", ctx, "auto-confirm", mock.Anything).Return(false, errors.New("dial tcp: refused")).Once()
	lease.On("Release", ctx, "auto-confirm").Return(errors.New("dial tcp: refused")).Once()
	handler.On("Handle", ctx, batchOf(commands.DefaultAutoConfirmBatchSize)).Return(commands.AutoConfirmResult{}, nil).Once()

	job := jobs.NewAutoConfirmationJob(handler, lease, m, jobs.AutoConfirmationSettings{}, discard())
	_, err := job.RunOnce(ctx)

	require.NoError(t, err)
	handler.AssertExpectations(t)
}

func TestAutoConfirmationJob_RunOnce_ReportsFailure(t *testing.T) {
	ctx := t.Context()
	handler := new(MockAutoConfirmer)
	m := metrics.New(prometheus.NewRegistry())
	handler.On("Handle", ctx, mock.Anything).
		Return(commands.AutoConfirmResult{Due: 2, Completed: 1}, errors.New("connection reset")).Once()

	job := jobs.NewAutoConfirmationJob(handler, nil, m, jobs.AutoConfirmationSettings{}, discard())
	result, err := job.RunOnce(ctx)

	require.EqualError(t, err, "connection reset")
	assert.Equal(t, 1, result.Completed)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmedOrders), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmRuns.WithLabelValues("failed")), 0)
}

func TestAutoConfirmationJob_RunOnce_CountsFailedOrders(t *testing.T) {
	ctx := t.Context()
	handler := new(MockAutoConfirmer)
	m := metrics.New(prometheus.NewRegistry())
	handler.On("Handle", ctx, mock.Anything).
		Return(commands.AutoConfirmResult{Due: 3, Completed: 2, Failed: 1}, nil).Once()

	job := jobs.NewAutoConfirmationJob(handler, nil, m, jobs.AutoConfirmationSettings{}, discard())
	result, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AutoConfirmedOrders), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmFailed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AutoConfirmRuns.WithLabelValues("partial")), 0)
}

func TestAutoConfirmationJob_StartRejectsBadSchedule(t *testing.T) {
	job := jobs.NewAutoConfirmationJob(new(MockAutoConfirmer), nil, metrics.New(prometheus.NewRegistry()),
		jobs.AutoConfirmationSettings{Schedule: "every minute"}, discard())

	require.Error(t, job.Start())
}

func TestJobManager_StartAndStop(t *testing.T) {
	handler := new(MockAutoConfirmer)
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.AutoConfirmResult{}, nil).Maybe()
	job := jobs.NewAutoConfirmationJob(handler, nil, metrics.New(prometheus.NewRegistry()),
		jobs.AutoConfirmationSettings{Schedule: "@every 1h"}, discard())

	manager := jobs.NewJobManager(job)
	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
