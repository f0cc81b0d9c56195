package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/handlers"
	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgResourceNotFound   = "ресурс не найден"
	msgSlotNotFound       = "слот не найден"
	msgInvalidDate        = "слот уже начался"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgPartySizeExceeded  = "размер группы превышает вместимость слота"
	msgDurationExceeded   = "превышена максимальная длительность бронирования"
	msgInsufficientRun    = "недостаточно свободных слотов подряд"
	msgSlotNotAvailable   = "выбранный слот уже занят"
	msgPersistenceFailure = "не удалось сохранить бронирование, попробуйте позже"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /bookings - Slot taken concurrently: user_id=%s, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrInsufficientRun):
			h.logger.Warn("POST /bookings - Insufficient run: user_id=%s, slot_id=%d, units=%d", userID, req.SlotID, req.Units)
			handlers.RespondUnprocessable(w, msgInsufficientRun)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: resource_id=%d, slot_id=%d", req.ResourceID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Slot in the past: slot_id=%d", req.SlotID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: slot_id=%d", req.SlotID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrPartySizeExceeded):
			h.logger.Warn("POST /bookings - Party size exceeded: units=%d", req.Units)
			handlers.RespondBadRequest(w, msgPartySizeExceeded)

		case errors.Is(err, createBooking.ErrDurationExceeded):
			h.logger.Warn("POST /bookings - Duration exceeded: units=%d", req.Units)
			handlers.RespondBadRequest(w, msgDurationExceeded)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrPersistenceFailure):
			h.logger.Error("POST /bookings - Persistence failure, changes rolled back: user_id=%s, error=%v", userID, err)
			handlers.RespondServiceUnavailable(w, msgPersistenceFailure)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%s, slots=%d",
		result.ID, userID, result.SlotCount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
