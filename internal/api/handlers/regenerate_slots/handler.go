package regenerate_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/handlers"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgResourceNotFound   = "ресурс не найден"
	msgInvalidDateRange   = "некорректный диапазон дат"
	msgInvalidConfig      = "по текущей конфигурации нельзя построить слоты"
)

type Handler struct {
	useCase RegenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase RegenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/slots/regenerate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathInt64(r, "resourceId")
	if err != nil {
		h.logger.Warn("POST /resources/{id}/slots/regenerate - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req RegenerateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/slots/regenerate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(resourceID)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/slots/regenerate - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, regenerateSlots.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/slots/regenerate - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, regenerateSlots.ErrInvalidDateRange):
			h.logger.Warn("POST /resources/{id}/slots/regenerate - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, regenerateSlots.ErrInvalidConfig):
			h.logger.Warn("POST /resources/{id}/slots/regenerate - Invalid config: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfig)

		default:
			h.logger.Error("POST /resources/{id}/slots/regenerate - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/slots/regenerate - Done: resource_id=%d, deleted=%d, inserted=%d, preserved=%d",
		resourceID, result.Deleted, result.Inserted, result.Preserved)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
