package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

func day(s string) time.Time {
	d, _ := time.Parse(DateFormat, s)
	return d
}

func TestResourceConfig_PlanUnits(t *testing.T) {
	bays := &ResourceConfig{Kind: ResourceKindExclusive, LaneCount: 4, SlotCapacity: 1}
	slots, perSlot := bays.PlanUnits(3)
	assert.Equal(t, 3, slots)
	assert.Equal(t, 1, perSlot)

	course := &ResourceConfig{Kind: ResourceKindShared, LaneCount: 1, SlotCapacity: 4}
	slots, perSlot = course.PlanUnits(3)
	assert.Equal(t, 1, slots)
	assert.Equal(t, 3, perSlot)
}

func TestResourceConfig_SlotWindow(t *testing.T) {
	now := time.Date(2026, 11, 1, 15, 30, 0, 0, time.UTC)

	cfg := &ResourceConfig{BookingHorizonDays: 14}
	w := cfg.SlotWindow(now)
	assert.Equal(t, day("2026-11-01"), w.From)
	assert.Equal(t, day("2026-11-15"), w.To)
	assert.Equal(t, 15, w.Len())

	unlimited := &ResourceConfig{}
	w = unlimited.SlotWindow(now)
	assert.Equal(t, day("2026-12-01"), w.To)
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange(day("2026-11-02"), day("2026-11-04"))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day("2026-11-02"), day("2026-11-03"), day("2026-11-04")}, r.Days())

	_, err = NewDateRange(day("2026-11-04"), day("2026-11-02"))
	assert.Error(t, err)
}

func TestSlot_Overlaps(t *testing.T) {
	lane1, lane2 := 1, 2
	a := &Slot{Lane: &lane1, SlotDate: day("2026-11-02"), StartTime: "09:00", EndTime: "09:30"}
	b := &Slot{Lane: &lane1, SlotDate: day("2026-11-02"), StartTime: "09:15", EndTime: "09:45"}
	c := &Slot{Lane: &lane1, SlotDate: day("2026-11-02"), StartTime: "09:30", EndTime: "10:00"}
	d := &Slot{Lane: &lane2, SlotDate: day("2026-11-02"), StartTime: "09:00", EndTime: "09:30"}

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c), "adjacent slots touch but do not overlap")
	assert.False(t, a.Overlaps(d), "different lanes never overlap")
}

func TestSlot_Counters(t *testing.T) {
	s := &Slot{AvailableCount: 1, BookedCount: 3, TotalCapacity: 4, StartTime: "08:00", EndTime: types.TimeString("08:10")}
	assert.True(t, s.IsConsistent())
	assert.True(t, s.HasCapacity(1))
	assert.False(t, s.HasCapacity(2))
	assert.False(t, s.IsUnbooked())
	assert.Equal(t, 10, s.DurationMinutes())
	assert.False(t, s.IsFull())

	s.AvailableCount, s.BookedCount = 0, 4
	assert.True(t, s.IsFull())
}
