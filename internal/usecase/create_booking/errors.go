package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда конфигурация ресурса не найдена
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrSlotNotFound возвращается, когда стартовый слот не найден или принадлежит другому ресурсу
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrInvalidDate возвращается, когда слот уже начался или дата в прошлом
	ErrInvalidDate = errors.New("create_booking: slot is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrPartySizeExceeded возвращается, когда размер группы больше емкости слота
	ErrPartySizeExceeded = errors.New("create_booking: party size exceeds slot capacity")

	// ErrDurationExceeded возвращается, когда запрошено больше слотов, чем разрешено политикой
	ErrDurationExceeded = errors.New("create_booking: requested duration exceeds policy cap")

	// ErrInsufficientRun возвращается, когда не хватает последовательных свободных слотов
	ErrInsufficientRun = errors.New("create_booking: not enough consecutive availability")

	// ErrSlotNoLongerAvailable возвращается, когда другой пользователь успел занять слот
	ErrSlotNoLongerAvailable = errors.New("create_booking: slot no longer available")

	// ErrPersistenceFailure возвращается при ошибке хранилища во время записи; изменения откатаны
	ErrPersistenceFailure = errors.New("create_booking: persistence failure")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
