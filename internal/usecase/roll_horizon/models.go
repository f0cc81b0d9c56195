package roll_horizon

// Result итоги продления окна бронирования
type Result struct {
	Resources int     // обработано ресурсов
	Inserted  int     // вставлено слотов
	Deleted   int64   // удалено свободных слотов
	Failed    []int64 // ресурсы, которые не удалось перегенерировать
}
