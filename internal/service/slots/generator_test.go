package slots

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return d
}

func singleDay(t *testing.T, s string) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(day(t, s), day(t, s))
	require.NoError(t, err)
	return r
}

func simulatorConfig() *domain.ResourceConfig {
	return &domain.ResourceConfig{
		ResourceID:          7,
		Kind:                domain.ResourceKindExclusive,
		LaneCount:           2,
		SlotIntervalMinutes: 30,
		FirstTime:           "00:00",
		LastTime:            "23:30",
		SlotCapacity:        1,
	}
}

func TestGenerate_SimulatorBaysFullDay(t *testing.T) {
	got, err := Generate(simulatorConfig(), singleDay(t, "2026-11-02"))
	require.NoError(t, err)

	require.Len(t, got, 96)

	perLane := map[int]int{}
	for _, s := range got {
		require.NotNil(t, s.Lane)
		perLane[*s.Lane]++
		assert.Equal(t, 1, s.TotalCapacity)
		assert.Equal(t, 1, s.AvailableCount)
		assert.Equal(t, 0, s.BookedCount)
		assert.True(t, s.IsConsistent())
	}
	assert.Equal(t, map[int]int{1: 48, 2: 48}, perLane)

	assert.Equal(t, types.TimeString("00:00"), got[0].StartTime)
	assert.Equal(t, types.TimeString("23:30"), got[47].StartTime)
	assert.Equal(t, types.EndOfDay, got[47].EndTime)
	assert.Equal(t, 2, *got[48].Lane)
}

func TestGenerate_SharedTeeSheet(t *testing.T) {
	cfg := &domain.ResourceConfig{
		ResourceID:          3,
		Kind:                domain.ResourceKindShared,
		LaneCount:           1,
		SlotIntervalMinutes: 10,
		FirstTime:           "07:00",
		LastTime:            "07:40",
		SlotCapacity:        4,
	}

	got, err := Generate(cfg, singleDay(t, "2026-11-02"))
	require.NoError(t, err)

	type window struct {
		Start, End types.TimeString
		Capacity   int
		Lane       *int
	}
	var windows []window
	for _, s := range got {
		windows = append(windows, window{s.StartTime, s.EndTime, s.TotalCapacity, s.Lane})
	}

	want := []window{
		{"07:00", "07:10", 4, nil},
		{"07:10", "07:20", 4, nil},
		{"07:20", "07:30", 4, nil},
		{"07:30", "07:40", 4, nil},
	}
	if diff := cmp.Diff(want, windows); diff != "" {
		t.Errorf("generated windows mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_TruncatesFinalSlot(t *testing.T) {
	cfg := &domain.ResourceConfig{
		ResourceID:          3,
		Kind:                domain.ResourceKindShared,
		SlotIntervalMinutes: 25,
		FirstTime:           "08:00",
		LastTime:            "09:00",
		SlotCapacity:        4,
	}

	got, err := Generate(cfg, singleDay(t, "2026-11-02"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	last := got[2]
	assert.Equal(t, types.TimeString("08:50"), last.StartTime)
	assert.Equal(t, types.TimeString("09:00"), last.EndTime, "final slot must not overflow lastTime")
	assert.Equal(t, 10, last.DurationMinutes())
}

func TestGenerate_OrderedByDateLaneStart(t *testing.T) {
	dates, err := domain.NewDateRange(day(t, "2026-11-02"), day(t, "2026-11-04"))
	require.NoError(t, err)

	got, err := Generate(simulatorConfig(), dates)
	require.NoError(t, err)
	require.Len(t, got, 3*96)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		switch {
		case cur.SlotDate.After(prev.SlotDate):
		case *cur.Lane > *prev.Lane:
			assert.True(t, cur.SlotDate.Equal(prev.SlotDate))
		default:
			assert.True(t, cur.StartTime.IsAfter(prev.StartTime), "slot %d out of order", i)
		}
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	dates := singleDay(t, "2026-11-02")

	tests := []struct {
		name string
		cfg  *domain.ResourceConfig
	}{
		{"nil", nil},
		{"unknown kind", &domain.ResourceConfig{Kind: "court", SlotIntervalMinutes: 30}},
		{"zero interval", &domain.ResourceConfig{Kind: domain.ResourceKindExclusive, LaneCount: 1}},
		{"no lanes", &domain.ResourceConfig{Kind: domain.ResourceKindExclusive, SlotIntervalMinutes: 30}},
		{"inverted window", &domain.ResourceConfig{
			Kind: domain.ResourceKindShared, SlotIntervalMinutes: 10, SlotCapacity: 4,
			FirstTime: "18:00", LastTime: "07:00",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.cfg, dates)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
