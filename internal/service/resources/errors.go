package resources

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация ресурса не найдена
	ErrConfigNotFound = errors.New("resources: config not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resources: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("resources: internal error")
)
