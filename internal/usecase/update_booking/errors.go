package update_booking

import "errors"

var (
	// ErrNotFound возвращается, когда бронирование не найдено
	ErrNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь изменяет чужое бронирование
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrBookingStarted возвращается, когда бронирование уже началось
	ErrBookingStarted = errors.New("update_booking: booking already started")

	// ErrPartySizeExceeded возвращается, когда размер группы больше емкости слота
	ErrPartySizeExceeded = errors.New("update_booking: party size exceeds slot capacity")

	// ErrDurationExceeded возвращается, когда запрошено больше слотов, чем разрешено политикой
	ErrDurationExceeded = errors.New("update_booking: requested duration exceeds policy cap")

	// ErrInsufficientRun возвращается, когда за бронированием не хватает свободных слотов
	ErrInsufficientRun = errors.New("update_booking: not enough consecutive availability")

	// ErrSlotNoLongerAvailable возвращается, когда дополнительную емкость успели занять
	ErrSlotNoLongerAvailable = errors.New("update_booking: slot no longer available")

	// ErrConflict возвращается, когда бронирование изменено или отменено параллельно; изменения откатаны
	ErrConflict = errors.New("update_booking: booking changed concurrently")

	// ErrPersistenceFailure возвращается при ошибке хранилища; изменения откатаны
	ErrPersistenceFailure = errors.New("update_booking: persistence failure")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
