package get_available_slots

import "errors"

var (
	// ErrResourceNotFound возвращается, когда конфигурация ресурса не найдена
	ErrResourceNotFound = errors.New("get_available_slots: resource not found")

	// ErrInvalidLane возвращается, когда дорожка не существует у ресурса
	ErrInvalidLane = errors.New("get_available_slots: invalid lane")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
