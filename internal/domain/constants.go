package domain

// Default configuration values
const (
	DefaultSlotIntervalMinutes = 30
	DefaultSharedSlotCapacity  = 4
	DefaultBookingHorizonDays  = 14
	DefaultMaxBookingMinutes   = 180 // 3 hours
	DefaultMaxSlotsPerBooking  = 6
	DefaultSlotWindowDays      = 30 // slots kept ahead for resources without a horizon
)

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240
	MinLaneCount           = 1
	MaxLaneCount           = 64
	MinSlotCapacity        = 1
	MaxSlotCapacity        = 16
	MaxBookingHorizonDays  = 365
	MaxRegenerateDays      = 366
	MaxPayloadBytes        = 4096
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
