package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/handlers"
	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	cancelBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgPersistenceFailure = "не удалось отменить бронирование, попробуйте позже"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID:   bookingID,
		RequesterID: userID,
	})
	if err != nil {
		// Бронирование удалено, часть слотов освободит сверка
		var partial *cancelBooking.PartialError
		if errors.As(err, &partial) {
			h.logger.Warn("DELETE /bookings/{id} - Cancellation pending: booking_id=%d, pending_slots=%v, cause=%v",
				bookingID, partial.PendingSlotIDs, partial.Cause)
			handlers.RespondJSON(w, http.StatusAccepted, &CancelBookingResponse{
				BookingID:      bookingID,
				Status:         StatusPending,
				PendingSlotIDs: partial.PendingSlotIDs,
			})
			return
		}

		switch {
		case errors.Is(err, cancelBooking.ErrNotFound):
			h.logger.Warn("DELETE /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("DELETE /bookings/{id} - Access denied: booking_id=%d, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrPersistenceFailure):
			h.logger.Error("DELETE /bookings/{id} - Persistence failure, nothing changed: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondServiceUnavailable(w, msgPersistenceFailure)

		default:
			h.logger.Error("DELETE /bookings/{id} - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking cancelled successfully: booking_id=%d, user_id=%s, released=%d",
		bookingID, userID, len(result.ReleasedSlotIDs))
	handlers.RespondJSON(w, http.StatusOK, &CancelBookingResponse{
		BookingID:       result.BookingID,
		Status:          StatusCancelled,
		ReleasedSlotIDs: result.ReleasedSlotIDs,
	})
}
