package allocator

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// SlotRepository читает последовательность слотов дорожки
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListLane(ctx context.Context, resourceID int64, lane *int, date time.Time) ([]*domain.Slot, error)
}

// LinkRepository читает занятость слотов
type LinkRepository interface {
	CountBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error)
}
