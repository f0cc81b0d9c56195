package create_booking

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	createBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID int64           `json:"resourceId"`
	SlotID     int64           `json:"slotId"`             // первый слот бронирования
	Units      int             `json:"units"`              // игроков или слотов подряд
	MinUnits   *int            `json:"minUnits,omitempty"` // согласие на более короткое бронирование
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64           `json:"id"`
	ResourceID  int64           `json:"resourceId"`
	RequesterID string          `json:"requesterId"`
	Lane        *int            `json:"lane,omitempty"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	Units       int             `json:"units"`
	SlotCount   int             `json:"slotCount"`
	SlotIDs     []int64         `json:"slotIds"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	CreatedAt   string          `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID string) *createBooking.Request {
	req := &createBooking.Request{
		ResourceID:  r.ResourceID,
		RequesterID: requesterID,
		StartSlotID: r.SlotID,
		Units:       r.Units,
		Payload:     r.Payload,
	}
	if r.MinUnits != nil {
		req.MinUnits = *r.MinUnits
	}
	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		ResourceID:  resp.ResourceID,
		RequesterID: resp.RequesterID,
		Lane:        resp.Lane,
		Date:        resp.SlotDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Units:       resp.Units,
		SlotCount:   resp.SlotCount,
		SlotIDs:     resp.SlotIDs,
		Payload:     resp.Payload,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
