package cancel_booking

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID   int64
	RequesterID string // пусто = оператор, проверка владельца пропускается
}

// Response модель ответа на отмену
type Response struct {
	BookingID       int64
	ReleasedSlotIDs []int64
}
