package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/allocator"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/compensation"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/ledger"
)

const operation = "book"

// phase отмечает, как далеко продвинулась запись; используется в логах
type phase string

const (
	phaseAllocated      phase = "allocated"
	phaseReserving      phase = "reserving"
	phaseBookingCreated phase = "booking_created"
	phaseLinking        phase = "linking"
	phaseCommitted      phase = "committed"
)

// Options настройки use case
type Options struct {
	// OperationTimeout ограничивает прямые шаги записи; 0 = без ограничения
	// Компенсация выполняется до конца независимо от него
	OperationTimeout time.Duration
}

// UseCase use case для создания бронирования
// Записи в слоты, бронирования и связи выполняются последовательно без транзакции;
// при любой ошибке уже выполненные шаги откатываются в обратном порядке
type UseCase struct {
	resourceRepo ResourceRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	linkRepo     LinkRepository
	taskRepo     TaskRepository
	ledger       Ledger
	allocator    Allocator
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	opts         Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	linkRepo LinkRepository,
	taskRepo TaskRepository,
	ledger Ledger,
	allocator Allocator,
	metrics Metrics,
	logger Logger,
	opts Options,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		linkRepo:     linkRepo,
		taskRepo:     taskRepo,
		ledger:       ledger,
		allocator:    allocator,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		opts:         opts,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveOperation(operation, outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: resource=%d, requester=%s, slot=%d, units=%d, minUnits=%d",
		req.ResourceID, req.RequesterID, req.StartSlotID, req.Units, req.MinUnits)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	minUnits := req.MinUnits
	if minUnits == 0 {
		minUnits = req.Units
	}

	// 2. Получаем конфигурацию ресурса
	cfg, err := uc.resourceRepo.GetByResourceID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrConfigNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not configured", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get config for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// 3. Получаем стартовый слот и проверяем дату
	start, err := uc.slotRepo.GetByID(ctx, req.StartSlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: slot id=%d not found", req.StartSlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.StartSlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	if start.ResourceID != req.ResourceID {
		uc.logger.Warn("CreateBooking: slot id=%d belongs to resource=%d", start.ID, start.ResourceID)
		return nil, ErrSlotNotFound
	}

	now := uc.timeProvider.Now()
	if err := validateDate(start.SlotDate, now, cfg.BookingHorizonDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}
	if err := validateStartTime(start.SlotDate, start.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: start time validation failed: %v", err)
		return nil, err
	}

	// 4. Переводим запрос в план: сколько слотов и по сколько единиц
	if err := validateSize(cfg, req.Units); err != nil {
		uc.logger.Warn("CreateBooking: size validation failed: %v", err)
		return nil, err
	}
	slotsWanted, unitsPerSlot := cfg.PlanUnits(req.Units)
	minSlots, _ := cfg.PlanUnits(minUnits)

	// 5. Ищем последовательные свободные слоты
	run, err := uc.allocator.Allocate(ctx, allocator.Request{
		ResourceID:     req.ResourceID,
		Lane:           start.Lane,
		StartSlotID:    start.ID,
		RequestedSlots: slotsWanted,
		MaxMinutes:     cfg.MaxBookingMinutes,
		MaxSlots:       cfg.MaxSlotsPerBooking,
	})
	if err != nil {
		if errors.Is(err, allocator.ErrSlotNotFound) || errors.Is(err, allocator.ErrSlotMismatch) {
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: allocation failed: %v", err)
		return nil, fmt.Errorf("%w: allocate: %v", ErrInternal, err)
	}
	if len(run) < minSlots {
		uc.logger.Warn("CreateBooking: run of %d slots from slot=%d, need at least %d", len(run), start.ID, minSlots)
		return nil, fmt.Errorf("%w: %d of %d slots available", ErrInsufficientRun, len(run), minSlots)
	}
	uc.logger.Info("CreateBooking: phase=%s run=%v", phaseAllocated, domain.SlotIDs(run))

	// 6. Запись с компенсацией
	booking, err := uc.commit(ctx, req, cfg, run, unitsPerSlot)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: phase=%s booking id=%d slots=%d", phaseCommitted, booking.ID, len(run))
	return toResponse(booking, run), nil
}

// commit резервирует емкость, создает бронирование и связи
// При ошибке на любом шаге журнал компенсации откатывает сделанное
func (uc *UseCase) commit(
	ctx context.Context,
	req *Request,
	cfg *domain.ResourceConfig,
	run []*domain.Slot,
	unitsPerSlot int,
) (*domain.Booking, error) {
	if uc.opts.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.OperationTimeout)
		defer cancel()
	}

	journal := compensation.NewJournal("CreateBooking", uc.taskRepo, uc.metrics, uc.logger)

	// 6.1. Резервируем каждый слот по порядку
	uc.logger.Info("CreateBooking: phase=%s", phaseReserving)
	for _, s := range run {
		if err := ctx.Err(); err != nil {
			journal.Unwind(ctx, domain.ReasonCompensationFailed)
			return nil, fmt.Errorf("%w: reserving: %v", ErrPersistenceFailure, err)
		}

		if err := uc.ledger.TryReserve(ctx, s.ID, unitsPerSlot); err != nil {
			journal.Unwind(ctx, domain.ReasonCompensationFailed)
			if errors.Is(err, ledger.ErrInsufficientCapacity) || errors.Is(err, ledger.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot=%d taken concurrently: %v", s.ID, err)
				return nil, fmt.Errorf("%w: slot %d", ErrSlotNoLongerAvailable, s.ID)
			}
			uc.logger.Error("CreateBooking: reserve slot=%d failed: %v", s.ID, err)
			return nil, fmt.Errorf("%w: reserve slot %d: %v", ErrPersistenceFailure, s.ID, err)
		}
		journal.RecordRelease(s.ID, unitsPerSlot, uc.ledger.Release)
	}

	// 6.2. Создаем бронирование
	first, last := run[0], run[len(run)-1]
	booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		ResourceID:  cfg.ResourceID,
		RequesterID: req.RequesterID,
		Lane:        first.Lane,
		SlotDate:    first.SlotDate,
		StartTime:   first.StartTime,
		EndTime:     last.EndTime,
		Units:       unitsPerSlot,
		SlotCount:   len(run),
		Payload:     req.Payload,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		journal.Unwind(ctx, domain.ReasonCompensationFailed)
		return nil, fmt.Errorf("%w: create booking: %v", ErrPersistenceFailure, err)
	}
	journal.SetBookingID(booking.ID)
	// Пока бронирование не удалено, его емкость не освобождается: освобождение уходит в сверку
	journal.Record(compensation.Step{
		Kind: compensation.StepDeleteBooking,
		Undo: func(ctx context.Context) error {
			return uc.bookingRepo.Delete(ctx, booking.ID)
		},
		DeferReleases: domain.ReasonBookingDeletePending,
	})
	uc.logger.Info("CreateBooking: phase=%s booking id=%d", phaseBookingCreated, booking.ID)

	// 6.3. Создаем по одной связи на слот
	// Удаление связей записывается в журнал до первой вставки, чтобы убрать и частично записанные
	journal.Record(compensation.Step{
		Kind: compensation.StepDeleteLinks,
		Undo: func(ctx context.Context) error {
			_, err := uc.linkRepo.DeleteByBooking(ctx, booking.ID)
			return err
		},
		DeferReleases: domain.ReasonCompensationFailed,
	})
	uc.logger.Info("CreateBooking: phase=%s booking id=%d", phaseLinking, booking.ID)
	for i, s := range run {
		if err := ctx.Err(); err == nil {
			_, err = uc.linkRepo.Create(ctx, &domain.SlotBookingLink{
				SlotID:    s.ID,
				BookingID: booking.ID,
				Units:     unitsPerSlot,
			})
			if err == nil {
				continue
			}
			uc.logger.Warn("CreateBooking: link %d/%d failed for booking id=%d, reserved capacity without booking "+
				"is visible until compensation finishes: %v", i+1, len(run), booking.ID, err)
		} else {
			uc.logger.Warn("CreateBooking: deadline reached while linking booking id=%d: %v", booking.ID, err)
		}

		journal.Unwind(ctx, domain.ReasonCompensationFailed)
		return nil, fmt.Errorf("%w: link slot %d", ErrPersistenceFailure, s.ID)
	}

	journal.Commit()
	return booking, nil
}

func toResponse(b *domain.Booking, run []*domain.Slot) *Response {
	return &Response{
		ID:          b.ID,
		ResourceID:  b.ResourceID,
		RequesterID: b.RequesterID,
		Lane:        b.Lane,
		SlotDate:    b.SlotDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Units:       b.Units,
		SlotCount:   b.SlotCount,
		SlotIDs:     domain.SlotIDs(run),
		Payload:     b.Payload,
		CreatedAt:   b.CreatedAt,
	}
}

// outcome переводит ошибку в метку метрики
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientRun):
		return "insufficient_run"
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return "slot_no_longer_available"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_failure"
	case errors.Is(err, ErrInternal):
		return "internal_error"
	default:
		return "rejected"
	}
}
