package regenerate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

// RegenerateRequest HTTP request model
type RegenerateRequest struct {
	From string `json:"from"` // "2026-11-02"
	To   string `json:"to"`
}

// RegenerateResponse HTTP response model
type RegenerateResponse struct {
	ResourceID     int64  `json:"resourceId"`
	From           string `json:"from"`
	To             string `json:"to"`
	Deleted        int64  `json:"deleted"`
	Inserted       int    `json:"inserted"`
	Preserved      int    `json:"preserved"`
	Skipped        int    `json:"skipped"`
	PendingRelease int    `json:"pendingRelease"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RegenerateRequest) ToUseCaseRequest(resourceID int64) (*regenerateSlots.Request, error) {
	from, err := time.Parse(domain.DateFormat, r.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := time.Parse(domain.DateFormat, r.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	return &regenerateSlots.Request{
		ResourceID: resourceID,
		From:       from,
		To:         to,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *regenerateSlots.Response) *RegenerateResponse {
	return &RegenerateResponse{
		ResourceID: resp.ResourceID,
		From:       resp.From.Format(domain.DateFormat),
		To:         resp.To.Format(domain.DateFormat),
		Deleted:    resp.Deleted,
		Inserted:   resp.Inserted,
		Preserved:  resp.Preserved,
		Skipped:    resp.Skipped,

		PendingRelease: resp.PendingRelease,
	}
}
