package roll_horizon

import "errors"

var (
	// ErrInternal возвращается, когда список ресурсов не удалось получить
	ErrInternal = errors.New("roll_horizon: internal error")
)
