package domain

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Slot is a fixed time interval on a resource lane with tracked capacity.
// Invariant: AvailableCount + BookedCount == TotalCapacity.
type Slot struct {
	ID             int64
	ResourceID     int64
	Lane           *int // nil for shared-capacity resources
	SlotDate       time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	TotalCapacity  int
	AvailableCount int
	BookedCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DurationMinutes returns the slot length
func (s *Slot) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// IsFull returns true if the slot has no available capacity
func (s *Slot) IsFull() bool {
	return s.AvailableCount <= 0
}

// IsUnbooked returns true if nothing is booked on the slot
func (s *Slot) IsUnbooked() bool {
	return s.BookedCount == 0
}

// HasCapacity returns true if units can still be reserved
func (s *Slot) HasCapacity(units int) bool {
	return s.AvailableCount >= units
}

// IsConsistent checks the capacity invariant
func (s *Slot) IsConsistent() bool {
	return s.AvailableCount >= 0 &&
		s.BookedCount >= 0 &&
		s.AvailableCount+s.BookedCount == s.TotalCapacity
}

// SameLane returns true if both slots belong to the same resource lane
func (s *Slot) SameLane(other *Slot) bool {
	return s.ResourceID == other.ResourceID && SameLane(s.Lane, other.Lane)
}

// Overlaps returns true if the slots share a lane, a date and some time.
// Touching intervals (one ends where the other starts) do not overlap.
func (s *Slot) Overlaps(other *Slot) bool {
	if !s.SameLane(other) || !sameDay(s.SlotDate, other.SlotDate) {
		return false
	}
	return s.StartTime.IsBefore(other.EndTime) && s.EndTime.IsAfter(other.StartTime)
}

// SameLane compares nullable lane numbers
func SameLane(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SlotBookingLink attributes consumed slot capacity to a booking.
// One row exists per slot a booking spans.
type SlotBookingLink struct {
	ID        int64
	SlotID    int64
	BookingID int64
	Units     int
	CreatedAt time.Time
}

// SlotIDs returns the slot ids of a run, preserving order
func SlotIDs(slots []*Slot) []int64 {
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}
