package allocator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	"github.com/m04kA/SMC-TeeTimeService/pkg/ptr"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

const resourceID = 10

func setup(t *testing.T) (*Allocator, *testutil.Store, []*domain.Slot) {
	t.Helper()
	store := testutil.NewStore()
	seeded := store.SeedResource(testutil.SimulatorConfig(resourceID, 2), testutil.Date("2026-11-02"))
	return NewAllocator(store.Slots, store.Links), store, seeded
}

func starts(run []*domain.Slot) []types.TimeString {
	out := make([]types.TimeString, len(run))
	for i, s := range run {
		out[i] = s.StartTime
	}
	return out
}

func TestAllocate_FullRun(t *testing.T) {
	a, _, seeded := setup(t)
	start := testutil.FindSlot(seeded, ptr.Ptr(1), "09:00")

	run, err := a.Allocate(context.Background(), Request{
		ResourceID:     resourceID,
		Lane:           ptr.Ptr(1),
		StartSlotID:    start.ID,
		RequestedSlots: 3,
		MaxMinutes:     180,
		MaxSlots:       6,
	})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, starts(run))
	for _, s := range run {
		assert.Equal(t, 1, *s.Lane)
	}
}

func TestAllocate_StopsBeforeLinkedSlot(t *testing.T) {
	a, store, seeded := setup(t)
	lane := ptr.Ptr(1)
	start := testutil.FindSlot(seeded, lane, "09:00")
	third := testutil.FindSlot(seeded, lane, "10:00")
	store.LinkBooking(third.ID, 500, 1)

	run, err := a.Allocate(context.Background(), Request{
		ResourceID:     resourceID,
		Lane:           lane,
		StartSlotID:    start.ID,
		RequestedSlots: 4,
		MaxMinutes:     180,
		MaxSlots:       6,
	})
	require.NoError(t, err)

	assert.Len(t, run, 2)
	assert.Equal(t, []types.TimeString{"09:00", "09:30"}, starts(run))
}

func TestAllocate_Caps(t *testing.T) {
	a, _, seeded := setup(t)
	start := testutil.FindSlot(seeded, ptr.Ptr(2), "12:00")

	tests := []struct {
		name       string
		maxMinutes int
		maxSlots   int
		want       int
	}{
		{"minutes cap", 90, 0, 3},
		{"slot cap", 0, 2, 2},
		{"both caps, slot cap tighter", 180, 4, 4},
		{"both caps, minutes cap tighter", 60, 6, 2},
		{"no caps", 0, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := a.Allocate(context.Background(), Request{
				ResourceID:     resourceID,
				StartSlotID:    start.ID,
				RequestedSlots: 8,
				MaxMinutes:     tt.maxMinutes,
				MaxSlots:       tt.maxSlots,
			})
			require.NoError(t, err)
			assert.Len(t, run, tt.want)
		})
	}
}

func TestAllocate_EndOfLane(t *testing.T) {
	a, _, seeded := setup(t)
	start := testutil.FindSlot(seeded, ptr.Ptr(1), "23:00")

	run, err := a.Allocate(context.Background(), Request{
		ResourceID:     resourceID,
		StartSlotID:    start.ID,
		RequestedSlots: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"23:00", "23:30"}, starts(run))
}

func TestAllocate_StartSlotAlwaysIncluded(t *testing.T) {
	a, store, seeded := setup(t)
	start := testutil.FindSlot(seeded, ptr.Ptr(1), "09:00")
	next := testutil.FindSlot(seeded, ptr.Ptr(1), "09:30")
	store.LinkBooking(start.ID, 1, 1)
	store.LinkBooking(next.ID, 1, 1)

	run, err := a.Allocate(context.Background(), Request{
		ResourceID:     resourceID,
		StartSlotID:    start.ID,
		RequestedSlots: 3,
	})
	require.NoError(t, err)
	require.Len(t, run, 1)
	assert.Equal(t, start.ID, run[0].ID)
}

func TestAllocate_StopsAtGap(t *testing.T) {
	store := testutil.NewStore()
	day := testutil.Date("2026-11-02")
	seeded := store.SeedSlots([]*domain.Slot{
		{ResourceID: resourceID, Lane: ptr.Ptr(1), SlotDate: day, StartTime: "09:00", EndTime: "09:30", TotalCapacity: 1, AvailableCount: 1},
		{ResourceID: resourceID, Lane: ptr.Ptr(1), SlotDate: day, StartTime: "09:30", EndTime: "10:00", TotalCapacity: 1, AvailableCount: 1},
		{ResourceID: resourceID, Lane: ptr.Ptr(1), SlotDate: day, StartTime: "10:30", EndTime: "11:00", TotalCapacity: 1, AvailableCount: 1},
	})
	a := NewAllocator(store.Slots, store.Links)

	run, err := a.Allocate(context.Background(), Request{
		ResourceID:     resourceID,
		StartSlotID:    seeded[0].ID,
		RequestedSlots: 3,
	})
	require.NoError(t, err)
	assert.Len(t, run, 2)
}

func TestAllocate_IsReadOnly(t *testing.T) {
	a, store, seeded := setup(t)
	start := testutil.FindSlot(seeded, ptr.Ptr(1), "09:00")
	before := store.AllSlots()

	_, err := a.Allocate(context.Background(), Request{ResourceID: resourceID, StartSlotID: start.ID, RequestedSlots: 3})
	require.NoError(t, err)

	assert.Equal(t, before, store.AllSlots())
	assert.Equal(t, 0, store.Calls(testutil.OpSlotReserve))
	assert.Equal(t, 0, store.LinkCount(0))
}

func TestAllocate_Errors(t *testing.T) {
	a, _, seeded := setup(t)
	start := testutil.FindSlot(seeded, ptr.Ptr(1), "09:00")
	ctx := context.Background()

	_, err := a.Allocate(ctx, Request{ResourceID: resourceID, StartSlotID: 9999, RequestedSlots: 1})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = a.Allocate(ctx, Request{ResourceID: resourceID + 1, StartSlotID: start.ID, RequestedSlots: 1})
	assert.ErrorIs(t, err, ErrSlotMismatch)

	_, err = a.Allocate(ctx, Request{ResourceID: resourceID, Lane: ptr.Ptr(2), StartSlotID: start.ID, RequestedSlots: 1})
	assert.ErrorIs(t, err, ErrSlotMismatch)

	_, err = a.Allocate(ctx, Request{ResourceID: resourceID, StartSlotID: start.ID})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAllocateAfter(t *testing.T) {
	a, store, seeded := setup(t)
	lane := ptr.Ptr(1)
	last := testutil.FindSlot(seeded, lane, "10:00")
	blocked := testutil.FindSlot(seeded, lane, "11:30")
	store.LinkBooking(blocked.ID, 77, 1)

	run, err := a.AllocateAfter(context.Background(), Request{
		ResourceID:     resourceID,
		StartSlotID:    last.ID,
		RequestedSlots: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:30", "11:00"}, starts(run))

	run, err = a.AllocateAfter(context.Background(), Request{
		ResourceID:     resourceID,
		StartSlotID:    testutil.FindSlot(seeded, lane, "11:00").ID,
		RequestedSlots: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, run)
}
