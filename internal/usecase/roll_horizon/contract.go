package roll_horizon

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

// ResourceRepository интерфейс репозитория конфигураций ресурсов
type ResourceRepository interface {
	ListResourceIDs(ctx context.Context) ([]int64, error)
	GetByResourceID(ctx context.Context, resourceID int64) (*domain.ResourceConfig, error)
}

// Regenerator перегенерация слотов одного ресурса
type Regenerator interface {
	Execute(ctx context.Context, req *regenerateSlots.Request) (*regenerateSlots.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
