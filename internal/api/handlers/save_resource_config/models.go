package save_resource_config

import (
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources/models"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

// SaveConfigResponse HTTP response model
type SaveConfigResponse struct {
	Config       *models.ConfigResponse `json:"config"`
	Regeneration *RegenerationSummary   `json:"regeneration,omitempty"`
}

// RegenerationSummary итоги перегенерации после сохранения настроек
type RegenerationSummary struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Deleted   int64  `json:"deleted"`
	Inserted  int    `json:"inserted"`
	Preserved int    `json:"preserved"`
	Skipped   int    `json:"skipped"`
}

// FromRegenerateResponse конвертирует ответ use case перегенерации
func FromRegenerateResponse(resp *regenerateSlots.Response) *RegenerationSummary {
	return &RegenerationSummary{
		From:      resp.From.Format(domain.DateFormat),
		To:        resp.To.Format(domain.DateFormat),
		Deleted:   resp.Deleted,
		Inserted:  resp.Inserted,
		Preserved: resp.Preserved,
		Skipped:   resp.Skipped,
	}
}
