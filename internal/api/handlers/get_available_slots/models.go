package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ResourceID int64           `json:"resourceId"`
	Kind       string          `json:"kind"`
	Date       string          `json:"date"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	ID              int64  `json:"id"`
	Lane            *int   `json:"lane,omitempty"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	BookedSpots     int    `json:"bookedSpots"`
	TotalSpots      int    `json:"totalSpots"`
	Bookable        bool   `json:"bookable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:              slot.ID,
			Lane:            slot.Lane,
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableCount,
			BookedSpots:     slot.BookedCount,
			TotalSpots:      slot.TotalCapacity,
			Bookable:        slot.Bookable,
		}
	}

	return &AvailableSlotsResponse{
		ResourceID: resp.ResourceID,
		Kind:       string(resp.Kind),
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(resourceID int64, dateStr, laneStr, onlyAvailableStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	req := &getAvailableSlots.Request{
		ResourceID: resourceID,
		Date:       date,
	}

	if laneStr != "" {
		lane, err := strconv.Atoi(laneStr)
		if err != nil {
			return nil, fmt.Errorf("lane: %w", err)
		}
		req.Lane = &lane
	}

	if onlyAvailableStr != "" {
		onlyAvailable, err := strconv.ParseBool(onlyAvailableStr)
		if err != nil {
			return nil, fmt.Errorf("onlyAvailable: %w", err)
		}
		req.OnlyAvailable = onlyAvailable
	}

	return req, nil
}
