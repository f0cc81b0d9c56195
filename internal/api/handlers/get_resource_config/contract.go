package get_resource_config

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources/models"
)

type ResourceService interface {
	Get(ctx context.Context, resourceID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
