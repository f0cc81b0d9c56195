package reconcile_releases

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// TaskRepository интерфейс хранилища задач сверки
type TaskRepository interface {
	ListPending(ctx context.Context, limit int) ([]*domain.ReconciliationTask, error)
	Delete(ctx context.Context, id string) error
	MarkAttempt(ctx context.Context, id string, lastErr string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Delete(ctx context.Context, id int64) error
}

// LinkRepository интерфейс репозитория связей слот-бронирование
type LinkRepository interface {
	DeleteOne(ctx context.Context, bookingID, slotID int64) error
}

// Ledger интерфейс учета емкости слотов
type Ledger interface {
	Release(ctx context.Context, slotID int64, units int) error
}

// Metrics интерфейс метрик сверки
type Metrics interface {
	ObserveReconciliation(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
