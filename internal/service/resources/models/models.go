package models

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Request модели

// SaveConfigRequest запрос на создание или замену конфигурации ресурса
// Опциональные поля получают значения по умолчанию
type SaveConfigRequest struct {
	ResourceID          int64  `json:"-"`
	Name                string `json:"name"`
	Kind                string `json:"kind"`                          // shared | exclusive
	LaneCount           int    `json:"laneCount"`                     // 1 для поля, N для N симуляторов
	SlotIntervalMinutes *int   `json:"slotIntervalMinutes,omitempty"` // по умолчанию 30
	FirstTime           string `json:"firstTime,omitempty"`           // HH:MM, только shared
	LastTime            string `json:"lastTime,omitempty"`            // HH:MM, только shared
	SlotCapacity        *int   `json:"slotCapacity,omitempty"`        // игроков на слот, только shared
	BookingHorizonDays  *int   `json:"bookingHorizonDays,omitempty"`  // 0 = без ограничений
	MaxBookingMinutes   *int   `json:"maxBookingMinutes,omitempty"`
	MaxSlotsPerBooking  *int   `json:"maxSlotsPerBooking,omitempty"`
}

// Response модели

// ConfigResponse ответ с конфигурацией ресурса
type ConfigResponse struct {
	ResourceID          int64     `json:"resourceId"`
	Name                string    `json:"name"`
	Kind                string    `json:"kind"`
	LaneCount           int       `json:"laneCount"`
	SlotIntervalMinutes int       `json:"slotIntervalMinutes"`
	FirstTime           string    `json:"firstTime"`
	LastTime            string    `json:"lastTime"`
	SlotCapacity        int       `json:"slotCapacity"`
	BookingHorizonDays  int       `json:"bookingHorizonDays"`
	MaxBookingMinutes   int       `json:"maxBookingMinutes"`
	MaxSlotsPerBooking  int       `json:"maxSlotsPerBooking"`
	Version             int       `json:"version"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.ResourceConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ResourceID:          c.ResourceID,
		Name:                c.Name,
		Kind:                string(c.Kind),
		LaneCount:           c.LaneCount,
		SlotIntervalMinutes: c.SlotIntervalMinutes,
		FirstTime:           c.FirstTime.String(),
		LastTime:            c.LastTime.String(),
		SlotCapacity:        c.SlotCapacity,
		BookingHorizonDays:  c.BookingHorizonDays,
		MaxBookingMinutes:   c.MaxBookingMinutes,
		MaxSlotsPerBooking:  c.MaxSlotsPerBooking,
		Version:             c.Version,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// ToDomainConfig конвертирует запрос в domain модель, подставляя значения по умолчанию
// Для exclusive ресурсов окно всегда 00:00-24:00, емкость всегда 1
func (r *SaveConfigRequest) ToDomainConfig() *domain.ResourceConfig {
	cfg := &domain.ResourceConfig{
		ResourceID:          r.ResourceID,
		Name:                r.Name,
		Kind:                domain.ResourceKind(r.Kind),
		LaneCount:           r.LaneCount,
		SlotIntervalMinutes: valueOr(r.SlotIntervalMinutes, domain.DefaultSlotIntervalMinutes),
		FirstTime:           types.TimeString(r.FirstTime),
		LastTime:            types.TimeString(r.LastTime),
		SlotCapacity:        valueOr(r.SlotCapacity, domain.DefaultSharedSlotCapacity),
		BookingHorizonDays:  valueOr(r.BookingHorizonDays, domain.DefaultBookingHorizonDays),
		MaxBookingMinutes:   valueOr(r.MaxBookingMinutes, domain.DefaultMaxBookingMinutes),
		MaxSlotsPerBooking:  valueOr(r.MaxSlotsPerBooking, domain.DefaultMaxSlotsPerBooking),
	}

	if cfg.IsExclusive() {
		cfg.FirstTime = "00:00"
		cfg.LastTime = types.EndOfDay
		cfg.SlotCapacity = 1
	} else if cfg.LaneCount == 0 {
		cfg.LaneCount = 1
	}

	return cfg
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
