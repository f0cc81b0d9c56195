package ledger

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// SlotRepository часть хранилища слотов, которую меняет сервис
// Reserve и Release обязаны выполняться одним условным UPDATE строки
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	Reserve(ctx context.Context, id int64, units int) (bool, error)
	Release(ctx context.Context, id int64, units int) (bool, error)
}

// Metrics учитывает нарушения инвариантов
type Metrics interface {
	IncCorruptState()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
