package regenerate_slots

import "errors"

var (
	// ErrResourceNotFound возвращается, когда конфигурация ресурса не найдена
	ErrResourceNotFound = errors.New("regenerate_slots: resource not found")

	// ErrInvalidDateRange возвращается, когда диапазон пуст, перевернут или вне горизонта
	ErrInvalidDateRange = errors.New("regenerate_slots: invalid date range")

	// ErrInvalidConfig возвращается, когда по конфигурации нельзя построить слоты
	ErrInvalidConfig = errors.New("regenerate_slots: invalid resource config")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("regenerate_slots: internal error")
)
