package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	"github.com/m04kA/SMC-TeeTimeService/pkg/ptr"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var day = testutil.Date("2026-11-02")

func newUseCase(t *testing.T, now time.Time) (*UseCase, *testutil.Store, []*domain.Slot, []*domain.Slot) {
	t.Helper()
	store := testutil.NewStore()
	bays := store.SeedResource(testutil.SimulatorConfig(10, 2), day)
	course := store.SeedResource(testutil.TeeSheetConfig(20), day)

	uc := NewUseCase(store.Resources, store.Slots, testutil.NewLogger())
	uc.timeProvider = fixedTime{now: now}
	return uc, store, bays, course
}

func TestExecute_ListsEveryLane(t *testing.T) {
	uc, _, _, _ := newUseCase(t, time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day})
	require.NoError(t, err)

	assert.Equal(t, domain.ResourceKindExclusive, resp.Kind)
	require.Len(t, resp.Slots, 96)
	assert.Equal(t, ptr.Ptr(1), resp.Slots[0].Lane)
	assert.Equal(t, "00:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, 30, resp.Slots[0].DurationMinutes)
	assert.Equal(t, ptr.Ptr(2), resp.Slots[95].Lane)
	assert.Equal(t, "24:00", resp.Slots[95].EndTime.String())
	for _, s := range resp.Slots {
		assert.True(t, s.Bookable)
	}
}

func TestExecute_FiltersLaneAndOccupancy(t *testing.T) {
	uc, store, bays, _ := newUseCase(t, time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC))
	taken := testutil.FindSlot(bays, ptr.Ptr(2), "09:00")
	store.SeedBooking("user-1", []*domain.Slot{taken}, 1)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day, Lane: ptr.Ptr(2)})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 48)
	for _, s := range resp.Slots {
		assert.Equal(t, ptr.Ptr(2), s.Lane)
		if s.ID == taken.ID {
			assert.False(t, s.Bookable)
			assert.Equal(t, 1, s.BookedCount)
		}
	}

	resp, err = uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day, Lane: ptr.Ptr(2), OnlyAvailable: true})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 47)
}

func TestExecute_SharedCounts(t *testing.T) {
	uc, store, _, course := newUseCase(t, time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC))
	tee := testutil.FindSlot(course, nil, "08:00")
	store.SeedBooking("user-1", []*domain.Slot{tee}, 3)

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 20, Date: day})
	require.NoError(t, err)

	for _, s := range resp.Slots {
		if s.ID != tee.ID {
			continue
		}
		assert.Nil(t, s.Lane)
		assert.Equal(t, 1, s.AvailableCount)
		assert.Equal(t, 3, s.BookedCount)
		assert.Equal(t, 4, s.TotalCapacity)
		assert.True(t, s.Bookable)
	}
}

func TestExecute_TodayHidesStartedSlots(t *testing.T) {
	uc, _, _, _ := newUseCase(t, time.Date(2026, 11, 2, 12, 10, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day, Lane: ptr.Ptr(1), OnlyAvailable: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "12:30", resp.Slots[0].StartTime.String())
}

func TestExecute_DateWindow(t *testing.T) {
	uc, _, _, _ := newUseCase(t, time.Date(2026, 11, 5, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots, "past dates list nothing")

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day.AddDate(0, 1, 0)})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_Rejections(t *testing.T) {
	uc, _, _, _ := newUseCase(t, time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{ResourceID: 404, Date: day})
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 10, Date: day, Lane: ptr.Ptr(3)})
	assert.ErrorIs(t, err, ErrInvalidLane)

	_, err = uc.Execute(context.Background(), &Request{ResourceID: 20, Date: day, Lane: ptr.Ptr(1)})
	assert.ErrorIs(t, err, ErrInvalidLane)
}
