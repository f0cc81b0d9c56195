package booking_slot

import "errors"

var (
	// ErrLinkNotFound возвращается, когда связь слота с бронированием не найдена
	ErrLinkNotFound = errors.New("booking_slot.repository: link not found")

	// ErrUnitsConflict возвращается, когда связи бронирования уже не содержат ожидаемое количество единиц
	ErrUnitsConflict = errors.New("booking_slot.repository: link units changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking_slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking_slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking_slot.repository: failed to scan row")
)
