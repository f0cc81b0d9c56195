package scheduler

import (
	"context"

	reconcileReleases "github.com/m04kA/SMC-TeeTimeService/internal/usecase/reconcile_releases"
	rollHorizon "github.com/m04kA/SMC-TeeTimeService/internal/usecase/roll_horizon"
)

// Reconciler повторное освобождение емкости по задачам сверки
type Reconciler interface {
	Execute(ctx context.Context, batchSize int) (*reconcileReleases.Result, error)
}

// HorizonRoller продление слотов на окно бронирования
type HorizonRoller interface {
	Execute(ctx context.Context) (*rollHorizon.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
