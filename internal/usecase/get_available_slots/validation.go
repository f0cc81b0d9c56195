package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Lane != nil && *req.Lane <= 0 {
		return fmt.Errorf("%w: lane must be positive", ErrInvalidInput)
	}

	return nil
}

// validateLane проверяет, что дорожка есть у ресурса
func validateLane(cfg *domain.ResourceConfig, lane *int) error {
	if lane == nil {
		return nil
	}
	if !cfg.IsExclusive() {
		return fmt.Errorf("%w: %s resource has no lanes", ErrInvalidLane, cfg.Kind)
	}
	if *lane > cfg.LaneCount {
		return fmt.Errorf("%w: resource has %d lanes", ErrInvalidLane, cfg.LaneCount)
	}
	return nil
}

// validateHorizon проверяет, что дата не дальше горизонта бронирования
func validateHorizon(date time.Time, now time.Time, horizonDays int) error {
	// Если horizonDays = 0, нет ограничений на дату
	if horizonDays == 0 {
		return nil
	}

	maxDate := domain.DateOnly(now).AddDate(0, 0, horizonDays)
	if domain.DateOnly(date).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
