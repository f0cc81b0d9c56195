package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// LinkRepository интерфейс репозитория связей слот-бронирование
type LinkRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.SlotBookingLink, error)
	DeleteByBooking(ctx context.Context, bookingID int64) ([]*domain.SlotBookingLink, error)
}

// TaskRepository интерфейс хранилища задач сверки
type TaskRepository interface {
	Create(ctx context.Context, task *domain.ReconciliationTask) error
}

// Ledger интерфейс учета емкости слотов
type Ledger interface {
	Release(ctx context.Context, slotID int64, units int) error
}

// Metrics интерфейс метрик операций
type Metrics interface {
	ObserveOperation(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
