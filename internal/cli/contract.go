package cli

import (
	"context"

	cancelBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/cancel_booking"
	reconcileReleases "github.com/m04kA/SMC-TeeTimeService/internal/usecase/reconcile_releases"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
	rollHorizon "github.com/m04kA/SMC-TeeTimeService/internal/usecase/roll_horizon"
)

// Regenerator перегенерация слотов одного ресурса
type Regenerator interface {
	Execute(ctx context.Context, req *regenerateSlots.Request) (*regenerateSlots.Response, error)
}

// HorizonRoller перегенерация всех ресурсов на окно бронирования
type HorizonRoller interface {
	Execute(ctx context.Context) (*rollHorizon.Result, error)
}

// Reconciler проход сверки
type Reconciler interface {
	Execute(ctx context.Context, batchSize int) (*reconcileReleases.Result, error)
}

// Canceller отмена бронирования
type Canceller interface {
	Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error)
}

// Migrator управление схемой БД
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
}

// Services то, с чем работают команды
type Services struct {
	Regenerate  Regenerator
	RollHorizon HorizonRoller
	Reconcile   Reconciler
	Cancel      Canceller
	Migrator    Migrator
	Close       func() error
}
