package reconcile_releases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/compensation"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/ledger"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	"github.com/m04kA/SMC-TeeTimeService/pkg/ptr"
)

type fixture struct {
	uc      *UseCase
	store   *testutil.Store
	metrics *testutil.Metrics
	seeded  []*domain.Slot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	seeded := store.SeedResource(testutil.SimulatorConfig(10, 1), testutil.Date("2026-11-02"))

	m := testutil.NewMetrics()
	log := testutil.NewLogger()
	uc := NewUseCase(store.Tasks, store.Bookings, store.Links, ledger.NewLedger(store.Slots, m, log), m, log)
	return &fixture{uc: uc, store: store, metrics: m, seeded: seeded}
}

func (f *fixture) slot(t *testing.T, at string) *domain.Slot {
	t.Helper()
	s := testutil.FindSlot(f.seeded, ptr.Ptr(1), at)
	require.NotNil(t, s)
	return s
}

func (f *fixture) addTask(t *testing.T, bookingID, slotID int64, units int, reason string) *domain.ReconciliationTask {
	t.Helper()
	task := compensation.NewTask(bookingID, slotID, units, reason, errors.New("timeout"))
	require.NoError(t, f.store.Tasks.Create(context.Background(), task))
	return task
}

func TestExecute_FinishesPartialCancellation(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, "09:00")
	b := f.store.SeedBooking("user-1", []*domain.Slot{s}, 1)
	require.NoError(t, f.store.Bookings.Delete(context.Background(), b.ID))
	f.addTask(t, b.ID, s.ID, 1, domain.ReasonCancellationPartial)

	res, err := f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)

	assert.Equal(t, &Result{Processed: 1, Released: 1}, res)
	assert.True(t, f.store.Slot(s.ID).IsUnbooked())
	assert.Zero(t, f.store.LinkCount(b.ID))
	assert.Empty(t, f.store.AllTasks())
	assert.Equal(t, 1, f.metrics.Reconciliations[OutcomeReleased])
}

func TestExecute_UnitsDeltaKeepsLink(t *testing.T) {
	store := testutil.NewStore()
	course := store.SeedResource(testutil.TeeSheetConfig(20), testutil.Date("2026-11-02"))
	tee := testutil.FindSlot(course, nil, "08:00")
	b := store.SeedBooking("user-1", []*domain.Slot{tee}, 3)
	// Party shrank from 3 to 1 but the release of 2 failed
	require.NoError(t, store.Links.UpdateUnits(context.Background(), b.ID, 3, 1))

	m := testutil.NewMetrics()
	log := testutil.NewLogger()
	uc := NewUseCase(store.Tasks, store.Bookings, store.Links, ledger.NewLedger(store.Slots, m, log), m, log)
	task := compensation.NewTask(b.ID, tee.ID, 2, domain.ReasonUnitsDeltaPending, nil)
	require.NoError(t, store.Tasks.Create(context.Background(), task))

	res, err := uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)

	got := store.Slot(tee.ID)
	assert.Equal(t, 3, got.AvailableCount)
	assert.Equal(t, 1, got.BookedCount)
	assert.Equal(t, 1, store.LinkCount(b.ID))
}

func TestExecute_DeletesBookingLeftByFailedCreation(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, "14:00")
	// Creation unwound its links, then failed to delete the booking row
	b := f.store.SeedBooking("user-1", []*domain.Slot{s}, 1)
	_, err := f.store.Links.DeleteByBooking(context.Background(), b.ID)
	require.NoError(t, err)
	f.addTask(t, b.ID, s.ID, 1, domain.ReasonBookingDeletePending)
	f.store.FailAfter(testutil.OpBookingDelete, 0, errors.New("connection reset"))

	res, err := f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, f.store.Slot(s.ID).BookedCount, "capacity stays with the booking row until it is gone")
	assert.Equal(t, 1, f.store.BookingCount())

	f.store.Heal(testutil.OpBookingDelete)
	res, err = f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)
	assert.Zero(t, f.store.BookingCount())
	assert.True(t, f.store.Slot(s.ID).IsUnbooked())
	assert.Empty(t, f.store.AllTasks())
}

func TestExecute_UnlinkTaskReleasesOnlyOwnLink(t *testing.T) {
	f := newFixture(t)
	kept := f.slot(t, "15:00")
	taken := f.slot(t, "15:30")
	b := f.store.SeedBooking("user-1", []*domain.Slot{kept, taken}, 1)
	f.addTask(t, b.ID, kept.ID, 1, domain.ReasonEditUnlinkPending)
	f.addTask(t, b.ID, taken.ID, 1, domain.ReasonEditUnlinkPending)

	// A cancellation removed the 15:30 link and released it already
	require.NoError(t, f.store.Links.DeleteOne(context.Background(), b.ID, taken.ID))
	require.NoError(t, f.uc.ledger.Release(context.Background(), taken.ID, 1))

	res, err := f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)
	assert.Equal(t, 1, res.Dropped)
	assert.Zero(t, res.Corrupt)

	assert.True(t, f.store.Slot(kept.ID).IsUnbooked())
	assert.True(t, f.store.Slot(taken.ID).IsUnbooked())
	assert.True(t, f.store.Slot(taken.ID).IsConsistent())
	assert.Zero(t, f.store.LinkCount(b.ID))
	assert.Empty(t, f.store.AllTasks())
}

func TestExecute_DropsTaskForDeletedSlot(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, 1, 999999, 1, domain.ReasonCompensationFailed)

	res, err := f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)
	assert.Empty(t, f.store.AllTasks())
}

func TestExecute_CorruptStateKeepsTask(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, "10:00")
	f.addTask(t, 1, s.ID, 1, domain.ReasonCompensationFailed)

	res, err := f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Corrupt)

	tasks := f.store.AllTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].Attempts)
	assert.Equal(t, 1, f.metrics.CorruptState)
	assert.True(t, f.store.Slot(s.ID).IsConsistent(), "counters are never clamped")
}

func TestExecute_RetriesStoreFailures(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, "11:00")
	b := f.store.SeedBooking("user-1", []*domain.Slot{s}, 1)
	f.addTask(t, b.ID, s.ID, 1, domain.ReasonCompensationFailed)
	f.store.FailAfter(testutil.OpSlotRelease, 0, errors.New("connection refused"))

	res, err := f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	tasks := f.store.AllTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].Attempts)
	require.NotNil(t, tasks[0].LastError)
	assert.Contains(t, *tasks[0].LastError, "connection refused")

	f.store.Heal(testutil.OpSlotRelease)
	res, err = f.uc.Execute(context.Background(), DefaultBatchSize)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)
	assert.Empty(t, f.store.AllTasks())
	assert.True(t, f.store.Slot(s.ID).IsUnbooked())
}

func TestExecute_RespectsBatchSize(t *testing.T) {
	f := newFixture(t)
	for _, at := range []string{"12:00", "12:30", "13:00"} {
		s := f.slot(t, at)
		b := f.store.SeedBooking("user-1", []*domain.Slot{s}, 1)
		f.addTask(t, b.ID, s.ID, 1, domain.ReasonCancellationPartial)
	}

	res, err := f.uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Len(t, f.store.AllTasks(), 1)

	_, err = f.uc.Execute(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
