package create_booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.RequesterID == "" {
		return fmt.Errorf("%w: requesterID is required", ErrInvalidInput)
	}

	if req.StartSlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.Units <= 0 {
		return fmt.Errorf("%w: units must be positive", ErrInvalidInput)
	}

	if req.MinUnits < 0 || req.MinUnits > req.Units {
		return fmt.Errorf("%w: minUnits must be between 1 and units", ErrInvalidInput)
	}

	if len(req.Payload) > domain.MaxPayloadBytes {
		return fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidInput, domain.MaxPayloadBytes)
	}

	if len(req.Payload) > 0 && !json.Valid(req.Payload) {
		return fmt.Errorf("%w: payload must be valid JSON", ErrInvalidInput)
	}

	return nil
}

// validateSize проверяет размер запроса против политики ресурса
func validateSize(cfg *domain.ResourceConfig, units int) error {
	if !cfg.IsExclusive() {
		if units > cfg.SlotCapacity {
			return fmt.Errorf("%w: %d players, capacity is %d", ErrPartySizeExceeded, units, cfg.SlotCapacity)
		}
		return nil
	}

	if cfg.MaxSlotsPerBooking > 0 && units > cfg.MaxSlotsPerBooking {
		return fmt.Errorf("%w: %d slots, at most %d allowed", ErrDurationExceeded, units, cfg.MaxSlotsPerBooking)
	}
	if cfg.MaxBookingMinutes > 0 && units*cfg.SlotIntervalMinutes > cfg.MaxBookingMinutes {
		return fmt.Errorf("%w: %d minutes, at most %d allowed", ErrDurationExceeded,
			units*cfg.SlotIntervalMinutes, cfg.MaxBookingMinutes)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, horizonDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// Если horizonDays = 0, нет ограничений на дату
	if horizonDays == 0 {
		return nil
	}

	maxDate := domain.DateOnly(now).AddDate(0, 0, horizonDays)
	if domain.DateOnly(bookingDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}

// validateStartTime проверяет, что слот сегодняшнего дня еще не начался
func validateStartTime(bookingDate time.Time, startTime types.TimeString, now time.Time) error {
	if !isSameDay(bookingDate, now) {
		return nil
	}

	if startTime.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: slot started at %s", ErrInvalidDate, startTime)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
