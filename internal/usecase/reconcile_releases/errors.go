package reconcile_releases

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном размере пачки
	ErrInvalidInput = errors.New("reconcile_releases: invalid input data")

	// ErrInternal возвращается, когда не удалось прочитать задачи
	ErrInternal = errors.New("reconcile_releases: internal error")
)
