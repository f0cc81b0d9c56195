package reconcile_releases

// Result итоги одного прохода сверки
type Result struct {
	Processed int
	Released  int // емкость возвращена, задача удалена
	Dropped   int // слот уже удален, задача удалена
	Corrupt   int // освобождение нарушило бы инвариант, задача оставлена
	Failed    int // ошибка хранилища, будет повтор
}

// Outcome метки результата для метрик
const (
	OutcomeReleased = "released"
	OutcomeDropped  = "dropped"
	OutcomeCorrupt  = "corrupt"
	OutcomeFailed   = "failed"
)
