package domain

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Booking is a confirmed reservation of one or more slot-units by a requester
type Booking struct {
	ID          int64
	ResourceID  int64
	RequesterID string // opaque reference owned by the identity provider
	Lane        *int
	SlotDate    time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Units       int // capacity units taken on every linked slot (party size or 1)
	SlotCount   int
	Payload     json.RawMessage // cart flag, holes, etc.; opaque to the engine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes returns the booked duration
func (b *Booking) DurationMinutes() int {
	return b.EndTime.Minutes() - b.StartTime.Minutes()
}

// IsOwnedBy returns true if the booking was made by requesterID
func (b *Booking) IsOwnedBy(requesterID string) bool {
	return b.RequesterID == requesterID
}

// ReconciliationTask is a capacity release still owed to a slot after a
// partially failed cancellation or compensation.
type ReconciliationTask struct {
	ID        string // uuid
	BookingID int64
	SlotID    int64
	Units     int
	Reason    string
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reasons recorded on reconciliation tasks
const (
	ReasonCancellationPartial  = "cancellation_partial"
	ReasonCompensationFailed   = "compensation_failed"
	ReasonEditCompensationFail = "edit_compensation_failed"
	ReasonEditReleasePending   = "edit_release_pending"
	ReasonUnitsDeltaPending    = "units_delta_pending"
	ReasonEditUnlinkPending    = "edit_unlink_pending"
	ReasonBookingDeletePending = "booking_delete_pending"
)

// DetachesLink reports whether the link between the task's booking and slot
// must be removed before the release. False only when the slot stays in the
// booking and just the party size shrank.
func (t *ReconciliationTask) DetachesLink() bool {
	return t.Reason != ReasonUnitsDeltaPending
}

// OwnsLink reports whether the release is owed only if the task removes the
// link itself. A link that is already gone was taken by a cancellation
// together with its capacity.
func (t *ReconciliationTask) OwnsLink() bool {
	return t.Reason == ReasonEditUnlinkPending
}

// DeletesBooking reports whether the booking row must be removed before the
// release. Set when a failed creation could not delete its own booking.
func (t *ReconciliationTask) DeletesBooking() bool {
	return t.Reason == ReasonBookingDeletePending
}
