package regenerate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// ResourceRepository интерфейс репозитория конфигураций ресурсов
type ResourceRepository interface {
	GetByResourceID(ctx context.Context, resourceID int64) (*domain.ResourceConfig, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Slot, error)
	DeleteUnbooked(ctx context.Context, resourceID int64, date time.Time) (int64, error)
	CreateBatch(ctx context.Context, slots []*domain.Slot) (int, error)
}

// Metrics интерфейс метрик операций
type Metrics interface {
	ObserveOperation(operation, outcome string)
	AddSlotsGenerated(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
