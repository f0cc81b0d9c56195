package allocator

import "errors"

var (
	// ErrSlotNotFound возвращается, когда стартовый слот не найден
	ErrSlotNotFound = errors.New("allocator: slot not found")

	// ErrSlotMismatch возвращается, когда стартовый слот принадлежит другому ресурсу или дорожке
	ErrSlotMismatch = errors.New("allocator: slot does not belong to resource lane")

	// ErrInvalidRequest возвращается для неположительных значений
	ErrInvalidRequest = errors.New("allocator: invalid request")

	// ErrInternal оборачивает ошибки хранилища
	ErrInternal = errors.New("allocator: internal error")
)
