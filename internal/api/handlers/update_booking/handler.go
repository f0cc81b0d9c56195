package update_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/handlers"
	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	updateBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgBookingStarted     = "бронирование уже началось"
	msgPartySizeExceeded  = "размер группы превышает вместимость слота"
	msgDurationExceeded   = "превышена максимальная длительность бронирования"
	msgInsufficientRun    = "недостаточно свободных слотов после бронирования"
	msgSlotNotAvailable   = "дополнительные места уже заняты"
	msgPersistenceFailure = "не удалось изменить бронирование, попробуйте позже"
	msgConflict           = "бронирование изменено другим запросом, обновите данные"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &updateBooking.Request{
		BookingID:   bookingID,
		RequesterID: userID,
		Units:       req.Units,
	})
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%d, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrBookingStarted):
			h.logger.Warn("PATCH /bookings/{id} - Booking already started: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgBookingStarted)

		case errors.Is(err, updateBooking.ErrPartySizeExceeded):
			handlers.RespondBadRequest(w, msgPartySizeExceeded)

		case errors.Is(err, updateBooking.ErrDurationExceeded):
			handlers.RespondBadRequest(w, msgDurationExceeded)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, updateBooking.ErrInsufficientRun):
			h.logger.Warn("PATCH /bookings/{id} - Insufficient run: booking_id=%d, units=%d", bookingID, req.Units)
			handlers.RespondUnprocessable(w, msgInsufficientRun)

		case errors.Is(err, updateBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("PATCH /bookings/{id} - Slot taken concurrently: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, updateBooking.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id} - Booking changed concurrently: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, updateBooking.ErrPersistenceFailure):
			h.logger.Error("PATCH /bookings/{id} - Persistence failure, changes rolled back: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondServiceUnavailable(w, msgPersistenceFailure)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, units=%d, slots=%d",
		bookingID, result.Units, result.SlotCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
