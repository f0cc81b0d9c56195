// Package app wires repositories, domain services and use cases into the
// object graph shared by the HTTP service and the operator CLI.
package app

import (
	"database/sql"
	"time"

	bookingRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking"
	linkRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking_slot"
	taskRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/reconciliation"
	resourceRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/allocator"
	bookingsService "github.com/m04kA/SMC-TeeTimeService/internal/service/bookings"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/ledger"
	resourcesService "github.com/m04kA/SMC-TeeTimeService/internal/service/resources"
	cancelBookingUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/get_available_slots"
	reconcileReleasesUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/reconcile_releases"
	regenerateSlotsUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
	rollHorizonUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/roll_horizon"
	updateBookingUC "github.com/m04kA/SMC-TeeTimeService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-TeeTimeService/pkg/dbmetrics"
)

// Recorder все метрики, которые пишут сервисы и use case
// Реализуется *metrics.Metrics и metrics.Noop
type Recorder interface {
	ObserveOperation(operation, outcome string)
	ObserveCompensation(step string, ok bool)
	IncCorruptState()
	ObserveReconciliation(result string)
	AddSlotsGenerated(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Options параметры записи бронирований
type Options struct {
	OperationTimeout time.Duration
}

// App собранный граф зависимостей
type App struct {
	Slots     *slotRepo.Repository
	Bookings  *bookingRepo.Repository
	Links     *linkRepo.Repository
	Resources *resourceRepo.Repository
	Tasks     *taskRepo.Repository

	Ledger    *ledger.Ledger
	Allocator *allocator.Allocator

	BookingService  *bookingsService.Service
	ResourceService *resourcesService.Service

	CreateBooking     *createBookingUC.UseCase
	CancelBooking     *cancelBookingUC.UseCase
	UpdateBooking     *updateBookingUC.UseCase
	GetAvailableSlots *getAvailableSlotsUC.UseCase
	RegenerateSlots   *regenerateSlotsUC.UseCase
	ReconcileReleases *reconcileReleasesUC.UseCase
	RollHorizon       *rollHorizonUC.UseCase
}

// New собирает граф поверх db (*sql.DB или *dbmetrics.DB)
func New(db dbmetrics.DBExecutor, rec Recorder, log Logger, opts Options) *App {
	a := &App{
		Slots:     slotRepo.NewRepository(db),
		Bookings:  bookingRepo.NewRepository(db),
		Links:     linkRepo.NewRepository(db),
		Resources: resourceRepo.NewRepository(db),
		Tasks:     taskRepo.NewRepository(db),
	}

	a.Ledger = ledger.NewLedger(a.Slots, rec, log)
	a.Allocator = allocator.NewAllocator(a.Slots, a.Links)

	a.BookingService = bookingsService.NewService(a.Bookings, a.Links, log)
	a.ResourceService = resourcesService.NewService(a.Resources, log)

	a.CreateBooking = createBookingUC.NewUseCase(
		a.Resources, a.Slots, a.Bookings, a.Links, a.Tasks,
		a.Ledger, a.Allocator, rec, log,
		createBookingUC.Options{OperationTimeout: opts.OperationTimeout},
	)
	a.CancelBooking = cancelBookingUC.NewUseCase(a.Bookings, a.Links, a.Tasks, a.Ledger, rec, log)
	a.UpdateBooking = updateBookingUC.NewUseCase(
		a.Resources, a.Slots, a.Bookings, a.Links, a.Tasks,
		a.Ledger, a.Allocator, rec, log,
	)
	a.GetAvailableSlots = getAvailableSlotsUC.NewUseCase(a.Resources, a.Slots, log)
	a.RegenerateSlots = regenerateSlotsUC.NewUseCase(a.Resources, a.Slots, rec, log)
	a.ReconcileReleases = reconcileReleasesUC.NewUseCase(a.Tasks, a.Bookings, a.Links, a.Ledger, rec, log)
	a.RollHorizon = rollHorizonUC.NewUseCase(a.Resources, a.RegenerateSlots, log)

	return a
}

// OpenDB открывает пул соединений PostgreSQL и проверяет соединение
func OpenDB(dsn string, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
