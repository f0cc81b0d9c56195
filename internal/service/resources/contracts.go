package resources

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// ResourceRepository интерфейс репозитория конфигураций ресурсов
type ResourceRepository interface {
	GetByResourceID(ctx context.Context, resourceID int64) (*domain.ResourceConfig, error)
	Upsert(ctx context.Context, cfg *domain.ResourceConfig) (*domain.ResourceConfig, error)
	ListResourceIDs(ctx context.Context) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
