package save_resource_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/handlers"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources/models"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные конфигурации"
)

type Handler struct {
	service      ResourceService
	regenerate   RegenerateSlotsUseCase
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(service ResourceService, regenerate RegenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		service:      service,
		regenerate:   regenerate,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Handle PUT /api/v1/resources/{resourceId}/config
// Сохраняет настройки и перестраивает слоты на окно бронирования.
// Занятые слоты перегенерация не трогает.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("PUT /resources/{id}/config - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req models.SaveConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ResourceID = resourceID

	// 1. Сохраняем конфигурацию
	saved, err := h.service.Save(r.Context(), &req)
	if err != nil {
		if errors.Is(err, resources.ErrInvalidInput) {
			h.logger.Warn("PUT /resources/{id}/config - Invalid data: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}
		h.logger.Error("PUT /resources/{id}/config - Failed to save config: resource_id=%d, error=%v",
			resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	// 2. Перестраиваем слоты на окно бронирования
	cfg := &domain.ResourceConfig{BookingHorizonDays: saved.BookingHorizonDays}
	window := cfg.SlotWindow(h.timeProvider.Now())
	regenerated, err := h.regenerate.Execute(r.Context(), &regenerateSlots.Request{
		ResourceID: resourceID,
		From:       window.From,
		To:         window.To,
	})
	if err != nil {
		// Настройки уже сохранены; слоты догонит ежедневная перегенерация
		h.logger.Error("PUT /resources/{id}/config - Config saved but regeneration failed: resource_id=%d, error=%v",
			resourceID, err)
		handlers.RespondJSON(w, http.StatusOK, &SaveConfigResponse{Config: saved})
		return
	}

	h.logger.Info("PUT /resources/{id}/config - Config saved: resource_id=%d, version=%d, inserted=%d, preserved=%d",
		resourceID, saved.Version, regenerated.Inserted, regenerated.Preserved)
	handlers.RespondJSON(w, http.StatusOK, &SaveConfigResponse{
		Config:       saved,
		Regeneration: FromRegenerateResponse(regenerated),
	})
}
