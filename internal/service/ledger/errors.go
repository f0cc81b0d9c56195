package ledger

import "errors"

var (
	// ErrInsufficientCapacity возвращается, когда слот занял другой запрос
	ErrInsufficientCapacity = errors.New("ledger: insufficient capacity")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("ledger: slot not found")

	// ErrCorruptState возвращается, когда освобождение увело бы booked ниже нуля
	ErrCorruptState = errors.New("ledger: corrupt state")

	// ErrInvalidUnits возвращается для неположительного количества единиц
	ErrInvalidUnits = errors.New("ledger: units must be positive")

	// ErrInternal оборачивает ошибки хранилища
	ErrInternal = errors.New("ledger: internal error")
)
