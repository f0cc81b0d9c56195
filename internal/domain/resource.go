package domain

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// ResourceKind describes how a resource shares its capacity
type ResourceKind string

const (
	// ResourceKindShared is a single tee sheet where several players share one slot (golf course)
	ResourceKindShared ResourceKind = "shared"
	// ResourceKindExclusive is a set of lanes each booked exclusively (simulator bays)
	ResourceKindExclusive ResourceKind = "exclusive"
)

// IsValid returns true for a known resource kind
func (k ResourceKind) IsValid() bool {
	return k == ResourceKindShared || k == ResourceKindExclusive
}

// ResourceConfig describes the operating parameters of a bookable resource.
// It is written by the settings flow and read-only to the booking engine.
type ResourceConfig struct {
	ID                  int64
	ResourceID          int64
	Name                string
	Kind                ResourceKind
	LaneCount           int              // 1 for a tee sheet, N for N simulator bays
	SlotIntervalMinutes int              // step between slot starts
	FirstTime           types.TimeString // operating window start (shared resources)
	LastTime            types.TimeString // operating window end (shared resources)
	SlotCapacity        int              // players per tee time; always 1 for exclusive lanes
	BookingHorizonDays  int              // 0 = unlimited
	MaxBookingMinutes   int              // cap on a single booking's duration
	MaxSlotsPerBooking  int              // cap on consecutive slots per booking
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsExclusive returns true if every lane is booked exclusively
func (c *ResourceConfig) IsExclusive() bool {
	return c.Kind == ResourceKindExclusive
}

// EffectiveCapacity returns the per-slot capacity copied into generated slots
func (c *ResourceConfig) EffectiveCapacity() int {
	if c.IsExclusive() {
		return 1
	}
	return c.SlotCapacity
}

// LaneNumbers returns lane numbers 1..LaneCount for exclusive resources
func (c *ResourceConfig) LaneNumbers() []int {
	lanes := make([]int, 0, c.LaneCount)
	for i := 1; i <= c.LaneCount; i++ {
		lanes = append(lanes, i)
	}
	return lanes
}

// HasBookingHorizon returns true if there's a limit on how far in advance slots can be booked
func (c *ResourceConfig) HasBookingHorizon() bool {
	return c.BookingHorizonDays > 0
}

// SlotWindow returns the dates slots should exist for, starting at today.
// Without a horizon the window is DefaultSlotWindowDays long.
func (c *ResourceConfig) SlotWindow(today time.Time) DateRange {
	today = DateOnly(today)
	days := DefaultSlotWindowDays
	if c.HasBookingHorizon() {
		days = c.BookingHorizonDays
	}
	return DateRange{From: today, To: today.AddDate(0, 0, days)}
}

// PlanUnits converts a requested unit count into a slot plan.
// Shared resources take `units` players on a single tee time.
// Exclusive resources take one unit on each of `units` consecutive slots.
func (c *ResourceConfig) PlanUnits(units int) (slots int, unitsPerSlot int) {
	if c.IsExclusive() {
		return units, 1
	}
	return 1, units
}
