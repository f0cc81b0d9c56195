package reconciliation

import "github.com/m04kA/SMC-TeeTimeService/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
