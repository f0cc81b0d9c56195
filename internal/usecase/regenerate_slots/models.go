package regenerate_slots

import "time"

// Request модель запроса на перегенерацию слотов
type Request struct {
	ResourceID int64
	From       time.Time
	To         time.Time
}

// Response итоги перегенерации
type Response struct {
	ResourceID int64
	From       time.Time // фактический диапазон после ограничения горизонтом
	To         time.Time
	Deleted    int64 // удалено свободных слотов
	Inserted   int   // вставлено новых слотов
	Preserved  int   // сохранено занятых слотов
	Skipped    int   // сгенерированные слоты, пересекающиеся с занятыми

	PendingRelease int // сохраненные слоты со связями, но без занятой емкости
}
