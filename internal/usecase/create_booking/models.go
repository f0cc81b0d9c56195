package create_booking

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ResourceID  int64           // ID ресурса (поле или симулятор)
	RequesterID string          // непрозрачный ID пользователя
	StartSlotID int64           // слот, с которого начинается бронирование
	Units       int             // игроков (поле) или слотов подряд (симулятор)
	MinUnits    int             // минимально приемлемое значение; 0 = Units
	Payload     json.RawMessage // гольф-кар, количество лунок и т.п.
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	ResourceID  int64
	RequesterID string
	Lane        *int
	SlotDate    time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Units       int
	SlotCount   int
	SlotIDs     []int64
	Payload     json.RawMessage
	CreatedAt   time.Time
}
