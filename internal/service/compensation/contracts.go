package compensation

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// TaskRepository сохраняет освобождения, которые не удалось применить
type TaskRepository interface {
	Create(ctx context.Context, task *domain.ReconciliationTask) error
}

// Metrics учитывает компенсирующие шаги
type Metrics interface {
	ObserveCompensation(step string, ok bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
