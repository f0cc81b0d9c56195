package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	reconcileReleases "github.com/m04kA/SMC-TeeTimeService/internal/usecase/reconcile_releases"
	rollHorizon "github.com/m04kA/SMC-TeeTimeService/internal/usecase/roll_horizon"
)

type countingReconciler struct {
	calls     atomic.Int32
	batchSize atomic.Int32
}

func (c *countingReconciler) Execute(ctx context.Context, batchSize int) (*reconcileReleases.Result, error) {
	c.calls.Add(1)
	c.batchSize.Store(int32(batchSize))
	return &reconcileReleases.Result{Processed: 1, Released: 1}, nil
}

type nopRoller struct{}

func (nopRoller) Execute(ctx context.Context) (*rollHorizon.Result, error) {
	return &rollHorizon.Result{}, nil
}

func TestService_RunsReconciliation(t *testing.T) {
	log := testutil.NewLogger()
	s, err := New(log)
	require.NoError(t, err)

	r := &countingReconciler{}
	require.NoError(t, s.AddReconciliation(r, 20*time.Millisecond, 50))
	s.Start()

	require.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "second stop is a no-op")

	assert.Equal(t, int32(50), r.batchSize.Load())
	assert.True(t, log.Contains("info", "released=1"))
}

func TestService_InvalidSchedules(t *testing.T) {
	s, err := New(testutil.NewLogger())
	require.NoError(t, err)
	defer s.Stop()

	assert.ErrorIs(t, s.AddReconciliation(&countingReconciler{}, 0, 10), ErrInvalidSchedule)
	assert.ErrorIs(t, s.AddReconciliation(&countingReconciler{}, time.Second, 0), ErrInvalidSchedule)
	assert.ErrorIs(t, s.AddHorizon(nopRoller{}, "25:99"), ErrInvalidSchedule)
	assert.NoError(t, s.AddHorizon(nopRoller{}, "03:00"))
}
