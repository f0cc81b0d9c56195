// Package slots построение слотов по конфигурации ресурса.
package slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Generate возвращает несохраненные слоты cfg на каждый день dates,
// упорядоченные по дате, дорожке и времени начала.
//
// Эксклюзивный ресурс: слот на каждый интервал всех суток на каждой дорожке, емкость 1.
// Общий ресурс: слот на каждый интервал от FirstTime до LastTime без дорожки;
// последний неполный интервал обрезается по LastTime.
func Generate(cfg *domain.ResourceConfig, dates domain.DateRange) ([]*domain.Slot, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if err := dates.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	days := dates.Days()
	capacity := cfg.EffectiveCapacity()

	var result []*domain.Slot
	for _, day := range days {
		if cfg.IsExclusive() {
			for _, lane := range cfg.LaneNumbers() {
				result = appendWindow(result, cfg, day, lane, 0, types.MinutesPerDay, capacity)
			}
			continue
		}
		result = appendWindow(result, cfg, day, 0, cfg.FirstTime.Minutes(), cfg.LastTime.Minutes(), capacity)
	}

	return result, nil
}

// appendWindow проходит [from, to) с шагом интервала; lane 0 означает отсутствие дорожки
func appendWindow(dst []*domain.Slot, cfg *domain.ResourceConfig, day time.Time, lane, from, to, capacity int) []*domain.Slot {
	for start := from; start < to; start += cfg.SlotIntervalMinutes {
		startTime := mustTime(start)
		endTime, err := startTime.AddMinutes(cfg.SlotIntervalMinutes)
		if err != nil || endTime.Minutes() > to {
			endTime = mustTime(to)
		}

		s := &domain.Slot{
			ResourceID:     cfg.ResourceID,
			SlotDate:       day,
			StartTime:      startTime,
			EndTime:        endTime,
			TotalCapacity:  capacity,
			AvailableCount: capacity,
		}
		if lane > 0 {
			l := lane
			s.Lane = &l
		}
		dst = append(dst, s)
	}
	return dst
}

// mustTime переводит минуты, уже ограниченные окном суток
func mustTime(minutes int) types.TimeString {
	t, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		panic(err)
	}
	return t
}

func validate(cfg *domain.ResourceConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if !cfg.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, cfg.Kind)
	}
	if cfg.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: slot interval must be positive", ErrInvalidConfig)
	}
	if cfg.IsExclusive() {
		if cfg.LaneCount < domain.MinLaneCount {
			return fmt.Errorf("%w: lane count must be positive", ErrInvalidConfig)
		}
		return nil
	}

	if cfg.SlotCapacity < domain.MinSlotCapacity {
		return fmt.Errorf("%w: slot capacity must be positive", ErrInvalidConfig)
	}
	if err := cfg.FirstTime.Validate(); err != nil {
		return fmt.Errorf("%w: first time: %v", ErrInvalidConfig, err)
	}
	if err := cfg.LastTime.Validate(); err != nil {
		return fmt.Errorf("%w: last time: %v", ErrInvalidConfig, err)
	}
	if !cfg.FirstTime.IsBefore(cfg.LastTime) {
		return fmt.Errorf("%w: first time %s must be before last time %s", ErrInvalidConfig, cfg.FirstTime, cfg.LastTime)
	}
	return nil
}
