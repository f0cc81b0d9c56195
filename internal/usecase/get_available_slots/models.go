package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ResourceID    int64     // ID ресурса
	Date          time.Time // Дата (без времени)
	Lane          *int      // Дорожка симулятора; nil = все
	OnlyAvailable bool      // Скрыть полностью занятые и начавшиеся слоты
}

// Response модель ответа со списком слотов
type Response struct {
	ResourceID int64
	Kind       domain.ResourceKind
	Date       time.Time
	Slots      []Slot
}

// Slot модель временного слота с текущими счетчиками
type Slot struct {
	ID              int64
	Lane            *int
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	AvailableCount  int
	BookedCount     int
	TotalCapacity   int
	Bookable        bool // есть емкость и слот еще не начался
}
