package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/allocator"
)

// ResourceRepository интерфейс репозитория конфигураций ресурсов
type ResourceRepository interface {
	GetByResourceID(ctx context.Context, resourceID int64) (*domain.ResourceConfig, error)
}

// SlotRepository интерфейс чтения слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// LinkRepository интерфейс репозитория связей слот-бронирование
type LinkRepository interface {
	Create(ctx context.Context, link *domain.SlotBookingLink) (*domain.SlotBookingLink, error)
	DeleteByBooking(ctx context.Context, bookingID int64) ([]*domain.SlotBookingLink, error)
}

// TaskRepository интерфейс хранилища задач сверки
type TaskRepository interface {
	Create(ctx context.Context, task *domain.ReconciliationTask) error
}

// Ledger интерфейс учета емкости слотов
type Ledger interface {
	TryReserve(ctx context.Context, slotID int64, units int) error
	Release(ctx context.Context, slotID int64, units int) error
}

// Allocator интерфейс поиска последовательных слотов
type Allocator interface {
	Allocate(ctx context.Context, req allocator.Request) ([]*domain.Slot, error)
}

// Metrics интерфейс метрик операций
type Metrics interface {
	ObserveOperation(operation, outcome string)
	ObserveCompensation(step string, ok bool)
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
