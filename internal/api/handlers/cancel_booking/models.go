package cancel_booking

// Статусы отмены
const (
	StatusCancelled = "cancelled"
	StatusPending   = "cancellation_pending"
)

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID       int64   `json:"bookingId"`
	Status          string  `json:"status"`
	ReleasedSlotIDs []int64 `json:"releasedSlotIds,omitempty"`
	PendingSlotIDs  []int64 `json:"pendingSlotIds,omitempty"` // освободит фоновая сверка
}
