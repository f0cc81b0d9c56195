package update_booking

import (
	"time"

	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Request модель запроса на изменение бронирования
type Request struct {
	BookingID   int64
	RequesterID string // пусто = оператор
	Units       int    // новый размер группы (поле) или число слотов (симулятор)
}

// Response модель ответа с измененным бронированием
type Response struct {
	ID        int64
	Lane      *int
	SlotDate  time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Units     int
	SlotCount int
	SlotIDs   []int64

	// PendingSlotIDs слоты, емкость которых освободит сверка
	PendingSlotIDs []int64
}
