package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
)

func newLedger(t *testing.T, total int) (*Ledger, *testutil.Store, *testutil.Metrics, int64) {
	t.Helper()
	store := testutil.NewStore()
	seeded := store.SeedSlots([]*domain.Slot{{
		ResourceID:     1,
		SlotDate:       testutil.Date("2026-11-02"),
		StartTime:      "09:00",
		EndTime:        "09:10",
		TotalCapacity:  total,
		AvailableCount: total,
	}})
	m := testutil.NewMetrics()
	return NewLedger(store.Slots, m, testutil.NewLogger()), store, m, seeded[0].ID
}

func TestTryReserve_DecrementsAvailable(t *testing.T) {
	l, store, _, id := newLedger(t, 4)

	require.NoError(t, l.TryReserve(context.Background(), id, 3))

	s := store.Slot(id)
	assert.Equal(t, 1, s.AvailableCount)
	assert.Equal(t, 3, s.BookedCount)
	assert.True(t, s.IsConsistent())
}

func TestTryReserve_NeverPartial(t *testing.T) {
	l, store, _, id := newLedger(t, 4)
	require.NoError(t, l.TryReserve(context.Background(), id, 3))

	err := l.TryReserve(context.Background(), id, 2)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	s := store.Slot(id)
	assert.Equal(t, 1, s.AvailableCount, "failed reservation must not touch counters")
	assert.Equal(t, 3, s.BookedCount)
}

func TestTryReserve_UnknownSlot(t *testing.T) {
	l, _, _, _ := newLedger(t, 1)
	assert.ErrorIs(t, l.TryReserve(context.Background(), 999, 1), ErrSlotNotFound)
}

func TestTryReserve_InvalidUnits(t *testing.T) {
	l, _, _, id := newLedger(t, 1)
	assert.ErrorIs(t, l.TryReserve(context.Background(), id, 0), ErrInvalidUnits)
	assert.ErrorIs(t, l.Release(context.Background(), id, -1), ErrInvalidUnits)
}

func TestTryReserve_StoreError(t *testing.T) {
	l, store, _, id := newLedger(t, 1)
	store.FailAfter(testutil.OpSlotReserve, 0, errors.New("connection reset"))

	err := l.TryReserve(context.Background(), id, 1)
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrInsufficientCapacity)
}

func TestTryReserve_NoOversellUnderConcurrency(t *testing.T) {
	l, store, _, id := newLedger(t, 1)

	const requesters = 16
	var wg sync.WaitGroup
	results := make(chan error, requesters)

	for i := 0; i < requesters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.TryReserve(context.Background(), id, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded, lost := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientCapacity):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, requesters-1, lost)

	s := store.Slot(id)
	assert.Equal(t, 0, s.AvailableCount)
	assert.Equal(t, 1, s.BookedCount)
}

func TestRelease_RestoresCapacity(t *testing.T) {
	l, store, _, id := newLedger(t, 4)
	require.NoError(t, l.TryReserve(context.Background(), id, 2))

	require.NoError(t, l.Release(context.Background(), id, 2))

	s := store.Slot(id)
	assert.Equal(t, 4, s.AvailableCount)
	assert.Equal(t, 0, s.BookedCount)
}

func TestRelease_CorruptStateIsNotClamped(t *testing.T) {
	l, store, m, id := newLedger(t, 4)
	require.NoError(t, l.TryReserve(context.Background(), id, 1))

	err := l.Release(context.Background(), id, 2)
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.Equal(t, 1, m.CorruptState)

	s := store.Slot(id)
	assert.Equal(t, 1, s.BookedCount, "counters must stay untouched")
	assert.Equal(t, 3, s.AvailableCount)
}

func TestRelease_UnknownSlot(t *testing.T) {
	l, _, m, _ := newLedger(t, 1)
	assert.ErrorIs(t, l.Release(context.Background(), 42, 1), ErrSlotNotFound)
	assert.Equal(t, 0, m.CorruptState)
}

func TestCapacityInvariant_RandomSequence(t *testing.T) {
	l, store, _, id := newLedger(t, 4)
	ctx := context.Background()

	ops := []struct {
		reserve bool
		units   int
	}{
		{true, 2}, {true, 1}, {false, 1}, {true, 3}, {true, 2}, {false, 2}, {false, 1}, {true, 4}, {false, 3},
	}
	for _, op := range ops {
		if op.reserve {
			_ = l.TryReserve(ctx, id, op.units)
		} else {
			_ = l.Release(ctx, id, op.units)
		}
		s := store.Slot(id)
		require.True(t, s.IsConsistent(), "available=%d booked=%d", s.AvailableCount, s.BookedCount)
	}
}
