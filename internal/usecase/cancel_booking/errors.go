package cancel_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, когда у бронирования нет связей или самого бронирования нет
	ErrNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь отменяет чужое бронирование
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrPartial возвращается, когда бронирование удалено, но часть емкости не освобождена
	ErrPartial = errors.New("cancel_booking: cancellation partially applied")

	// ErrPersistenceFailure возвращается, когда удалить бронирование не удалось; ничего не изменено
	ErrPersistenceFailure = errors.New("cancel_booking: persistence failure")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)

// PartialError описывает отмену, после которой остались неосвобожденные слоты.
// Бронирование уже удалено; освобождение слотов доделает сверка.
type PartialError struct {
	BookingID      int64
	PendingSlotIDs []int64
	Cause          error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%v: booking=%d pending slots=%v: %v", ErrPartial, e.BookingID, e.PendingSlotIDs, e.Cause)
}

// Unwrap позволяет сравнивать через errors.Is(err, ErrPartial)
func (e *PartialError) Unwrap() error {
	return ErrPartial
}
