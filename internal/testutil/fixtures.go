package testutil

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/slots"
)

// Date parses YYYY-MM-DD and panics on malformed input
func Date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

// SimulatorConfig is a bay resource: 30 minute slots, capacity 1 per lane
func SimulatorConfig(resourceID int64, lanes int) *domain.ResourceConfig {
	return &domain.ResourceConfig{
		ResourceID:          resourceID,
		Name:                "Simulator bays",
		Kind:                domain.ResourceKindExclusive,
		LaneCount:           lanes,
		SlotIntervalMinutes: 30,
		FirstTime:           "00:00",
		LastTime:            "23:30",
		SlotCapacity:        1,
		BookingHorizonDays:  domain.DefaultBookingHorizonDays,
		MaxBookingMinutes:   domain.DefaultMaxBookingMinutes,
		MaxSlotsPerBooking:  domain.DefaultMaxSlotsPerBooking,
	}
}

// TeeSheetConfig is a golf course: 10 minute tee times, four players each
func TeeSheetConfig(resourceID int64) *domain.ResourceConfig {
	return &domain.ResourceConfig{
		ResourceID:          resourceID,
		Name:                "Championship course",
		Kind:                domain.ResourceKindShared,
		LaneCount:           1,
		SlotIntervalMinutes: 10,
		FirstTime:           "07:00",
		LastTime:            "18:00",
		SlotCapacity:        4,
		BookingHorizonDays:  domain.DefaultBookingHorizonDays,
		MaxBookingMinutes:   domain.DefaultMaxBookingMinutes,
		MaxSlotsPerBooking:  domain.DefaultMaxSlotsPerBooking,
	}
}

// SeedResource stores cfg and generates its slots for one day
func (s *Store) SeedResource(cfg *domain.ResourceConfig, day time.Time) []*domain.Slot {
	s.SeedConfig(cfg)
	dates, err := domain.NewDateRange(day, day)
	if err != nil {
		panic(err)
	}
	generated, err := slots.Generate(cfg, dates)
	if err != nil {
		panic(err)
	}
	return s.SeedSlots(generated)
}

// FindSlot returns the seeded slot on lane (nil for shared) starting at start
func FindSlot(seeded []*domain.Slot, lane *int, start string) *domain.Slot {
	for _, sl := range seeded {
		if domain.SameLane(sl.Lane, lane) && string(sl.StartTime) == start {
			return sl
		}
	}
	return nil
}

// SeedBooking stores a committed booking over run: one link per slot and
// units taken from each slot's counters.
func (s *Store) SeedBooking(requesterID string, run []*domain.Slot, units int) *domain.Booking {
	first, last := run[0], run[len(run)-1]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBookingID++
	b := &domain.Booking{
		ID:          s.nextBookingID,
		ResourceID:  first.ResourceID,
		RequesterID: requesterID,
		Lane:        first.Lane,
		SlotDate:    first.SlotDate,
		StartTime:   first.StartTime,
		EndTime:     last.EndTime,
		Units:       units,
		SlotCount:   len(run),
	}
	s.bookings[b.ID] = copyBooking(b)

	for _, sl := range run {
		s.nextLinkID++
		s.links[s.nextLinkID] = &domain.SlotBookingLink{
			ID:        s.nextLinkID,
			SlotID:    sl.ID,
			BookingID: b.ID,
			Units:     units,
		}
		stored := s.slots[sl.ID]
		stored.AvailableCount -= units
		stored.BookedCount += units
	}
	return b
}
