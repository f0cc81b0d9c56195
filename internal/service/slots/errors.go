package slots

import "errors"

var (
	// ErrInvalidConfig возвращается, когда по конфигурации ресурса нельзя построить слоты
	ErrInvalidConfig = errors.New("slots: invalid resource config")
)
