package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// buildSlots переводит слоты хранилища в модель ответа
// Слоты сегодняшнего дня, которые уже начались, помечаются как недоступные
func buildSlots(stored []*domain.Slot, date time.Time, now time.Time, onlyAvailable bool) []Slot {
	started := startedBefore(date, now)

	slots := make([]Slot, 0, len(stored))
	for _, s := range stored {
		bookable := !s.IsFull() && !started(s)
		if onlyAvailable && !bookable {
			continue
		}

		slots = append(slots, Slot{
			ID:              s.ID,
			Lane:            s.Lane,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMinutes(),
			AvailableCount:  s.AvailableCount,
			BookedCount:     s.BookedCount,
			TotalCapacity:   s.TotalCapacity,
			Bookable:        bookable,
		})
	}
	return slots
}

// startedBefore возвращает проверку "слот уже начался" для даты
func startedBefore(date, now time.Time) func(*domain.Slot) bool {
	if !domain.DateOnly(date).Equal(domain.DateOnly(now)) {
		return func(*domain.Slot) bool { return false }
	}

	current := types.NewTimeString(now)
	return func(s *domain.Slot) bool {
		return s.StartTime.IsBefore(current)
	}
}
