package update_booking

import (
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	updateBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model
type UpdateBookingRequest struct {
	Units int `json:"units"` // новый размер группы или число слотов
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	Lane           *int    `json:"lane,omitempty"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Units          int     `json:"units"`
	SlotCount      int     `json:"slotCount"`
	SlotIDs        []int64 `json:"slotIds"`
	PendingSlotIDs []int64 `json:"pendingSlotIds,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		Lane:           resp.Lane,
		Date:           resp.SlotDate.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		Units:          resp.Units,
		SlotCount:      resp.SlotCount,
		SlotIDs:        resp.SlotIDs,
		PendingSlotIDs: resp.PendingSlotIDs,
	}
}
