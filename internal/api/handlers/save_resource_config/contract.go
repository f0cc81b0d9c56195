package save_resource_config

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources/models"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

type ResourceService interface {
	Save(ctx context.Context, req *models.SaveConfigRequest) (*models.ConfigResponse, error)
}

type RegenerateSlotsUseCase interface {
	Execute(ctx context.Context, req *regenerateSlots.Request) (*regenerateSlots.Response, error)
}

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
