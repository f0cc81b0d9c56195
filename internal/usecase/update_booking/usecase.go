package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking"
	linkRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking_slot"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/allocator"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/compensation"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/ledger"
	"github.com/m04kA/SMC-TeeTimeService/pkg/types"
)

const operation = "edit"

// UseCase use case для изменения бронирования на месте
// Меняется только емкость (дельтой) и хвост серии слотов; ID бронирования сохраняется
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
	}
}

// Execute выполняет изменение бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveOperation(operation, outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d requester=%q units=%d", req.BookingID, req.RequesterID, req.Units)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", ErrInvalidInput)
	}

	// 2. Получаем бронирование и проверяем владельца
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking=%d not found", req.BookingID)
			return nil, ErrNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: UpdateBooking - get booking: %v", ErrInternal, err)
	}
	if req.RequesterID != "" && !booking.IsOwnedBy(req.RequesterID) {
		uc.logger.Warn("UpdateBooking: requester=%q does not own booking=%d", req.RequesterID, booking.ID)
		return nil, ErrAccessDenied
	}
	if uc.hasStarted(booking) {
		uc.logger.Warn("UpdateBooking: booking=%d already started", booking.ID)
		return nil, ErrBookingStarted
	}

	// 3. Проверяем новый размер против политики ресурса
	cfg, err := uc.resourceRepo.GetByResourceID(ctx, booking.ResourceID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get config for resource=%d: %v", booking.ResourceID, err)
		return nil, fmt.Errorf("%w: UpdateBooking - get config: %v", ErrInternal, err)
	}
	if err := validateSize(cfg, req.Units); err != nil {
		uc.logger.Warn("UpdateBooking: size validation failed: %v", err)
		return nil, err
	}

	// 4. Загружаем текущие связи
	links, err := uc.linkRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to list links for booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: UpdateBooking - list links: %v", ErrInternal, err)
	}
	if len(links) == 0 {
		uc.logger.Error("UpdateBooking: booking=%d has no links", booking.ID)
		return nil, ErrNotFound
	}
	if len(links) != booking.SlotCount {
		uc.logger.Warn("UpdateBooking: booking=%d has %d links, expected %d", booking.ID, len(links), booking.SlotCount)
		return nil, fmt.Errorf("%w: booking %d is being changed", ErrConflict, booking.ID)
	}

	// 5. Применяем дельту
	if !cfg.IsExclusive() {
		return uc.resizeParty(ctx, booking, links, req.Units)
	}

	switch delta := req.Units - len(links); {
	case delta > 0:
		return uc.extend(ctx, cfg, booking, links, delta)
	case delta < 0:
		return uc.shrink(ctx, booking, links, req.Units)
	default:
		return toResponse(booking, slotIDs(links), nil), nil
	}
}

// resizeParty меняет размер группы на каждом слоте бронирования
func (uc *UseCase) resizeParty(
	ctx context.Context,
	booking *domain.Booking,
	links []*domain.SlotBookingLink,
	units int,
) (*Response, error) {
	oldUnits, oldCount := booking.Units, booking.SlotCount
	delta := units - oldUnits
	if delta == 0 {
		return toResponse(booking, slotIDs(links), nil), nil
	}

	journal := compensation.NewJournal("UpdateBooking", uc.taskRepo, uc.metrics, uc.logger)
	journal.SetBookingID(booking.ID)

	// Связи не вернулись к старому размеру: их забрала отмена или откат не прошел.
	// Тогда емкость следует за связями, а не за журналом
	handedOver := false
	release := func(ctx context.Context, slotID int64, n int) error {
		if handedOver {
			return nil
		}
		return uc.ledger.Release(ctx, slotID, n)
	}
	unwind := func() {
		journal.Unwind(ctx, domain.ReasonUnitsDeltaPending)
		if handedOver && delta < 0 {
			uc.releaseAll(ctx, booking.ID, slotIDs(links), -delta, domain.ReasonUnitsDeltaPending)
		}
	}

	// 5.1. Дополнительная емкость резервируется до изменения записей
	if delta > 0 {
		for _, link := range links {
			if err := uc.ledger.TryReserve(ctx, link.SlotID, delta); err != nil {
				unwind()
				return nil, uc.reserveError(link.SlotID, err)
			}
			journal.RecordRelease(link.SlotID, delta, release)
		}
	}

	// 5.2. Единицы на связях, только если никто не изменил их раньше
	if err := uc.linkRepo.UpdateUnits(ctx, booking.ID, oldUnits, units); err != nil {
		unwind()
		if errors.Is(err, linkRepo.ErrUnitsConflict) {
			uc.logger.Warn("UpdateBooking: links of booking=%d changed concurrently", booking.ID)
			return nil, fmt.Errorf("%w: link units", ErrConflict)
		}
		uc.logger.Error("UpdateBooking: failed to update link units for booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: update link units: %v", ErrPersistenceFailure, err)
	}
	journal.Record(compensation.Step{
		Kind: compensation.StepRestoreUnits,
		Undo: func(ctx context.Context) error {
			err := uc.linkRepo.UpdateUnits(ctx, booking.ID, units, oldUnits)
			if err != nil {
				handedOver = true
			}
			if errors.Is(err, linkRepo.ErrUnitsConflict) {
				uc.logger.Warn("UpdateBooking: links of booking=%d taken by cancellation", booking.ID)
				return nil
			}
			return err
		},
	})

	// 5.3. Бронирование обновляется последним
	booking.Units = units
	if err := uc.bookingRepo.Update(ctx, booking, oldUnits, oldCount); err != nil {
		booking.Units = oldUnits
		unwind()
		return nil, uc.updateError(booking.ID, err)
	}
	journal.Commit()

	// 5.4. Лишняя емкость освобождается после фиксации
	var pending []int64
	if delta < 0 {
		pending = uc.releaseAll(ctx, booking.ID, slotIDs(links), -delta, domain.ReasonUnitsDeltaPending)
	}

	uc.logger.Info("UpdateBooking: booking=%d party size %d -> %d", booking.ID, oldUnits, units)
	return toResponse(booking, slotIDs(links), pending), nil
}

// extend продлевает бронирование симулятора следующими свободными слотами
func (uc *UseCase) extend(
	ctx context.Context,
	cfg *domain.ResourceConfig,
	booking *domain.Booking,
	links []*domain.SlotBookingLink,
	delta int,
) (*Response, error) {
	req := allocator.Request{
		ResourceID:     booking.ResourceID,
		Lane:           booking.Lane,
		StartSlotID:    links[len(links)-1].SlotID,
		RequestedSlots: delta,
	}
	if cfg.MaxSlotsPerBooking > 0 {
		req.MaxSlots = cfg.MaxSlotsPerBooking - len(links)
	}
	if cfg.MaxBookingMinutes > 0 {
		req.MaxMinutes = cfg.MaxBookingMinutes - booking.DurationMinutes()
	}

	// 5.1. Ищем свободные слоты сразу после бронирования
	extra, err := uc.allocator.AllocateAfter(ctx, req)
	if err != nil {
		uc.logger.Error("UpdateBooking: allocation after slot=%d failed: %v", req.StartSlotID, err)
		return nil, fmt.Errorf("%w: allocate: %v", ErrInternal, err)
	}
	if len(extra) < delta {
		uc.logger.Warn("UpdateBooking: only %d of %d slots free after booking=%d", len(extra), delta, booking.ID)
		return nil, fmt.Errorf("%w: %d of %d slots available", ErrInsufficientRun, len(extra), delta)
	}

	journal := compensation.NewJournal("UpdateBooking", uc.taskRepo, uc.metrics, uc.logger)
	journal.SetBookingID(booking.ID)

	// Слоты, емкость которых уже не возвращает журнал: связь забрала отмена
	// или связь осталась и освобождение ждет сверки
	taken := make(map[int64]bool, len(extra))
	release := func(ctx context.Context, slotID int64, n int) error {
		if taken[slotID] {
			return nil
		}
		return uc.ledger.Release(ctx, slotID, n)
	}

	// 5.2. Резервируем новые слоты
	for _, s := range extra {
		if err := uc.ledger.TryReserve(ctx, s.ID, booking.Units); err != nil {
			journal.Unwind(ctx, domain.ReasonEditCompensationFail)
			return nil, uc.reserveError(s.ID, err)
		}
		journal.RecordRelease(s.ID, booking.Units, release)
	}

	// 5.3. Привязываем их к бронированию
	for _, s := range extra {
		slotID := s.ID
		if _, err := uc.linkRepo.Create(ctx, &domain.SlotBookingLink{
			SlotID:    slotID,
			BookingID: booking.ID,
			Units:     booking.Units,
		}); err != nil {
			uc.logger.Warn("UpdateBooking: link slot=%d failed for booking=%d: %v", slotID, booking.ID, err)
			journal.Unwind(ctx, domain.ReasonEditCompensationFail)
			return nil, fmt.Errorf("%w: link slot %d: %v", ErrPersistenceFailure, slotID, err)
		}
		journal.Record(compensation.Step{
			Kind:   compensation.StepDeleteLink,
			SlotID: slotID,
			Undo: func(ctx context.Context) error {
				err := uc.linkRepo.DeleteOne(ctx, booking.ID, slotID)
				switch {
				case err == nil:
					return nil
				case errors.Is(err, linkRepo.ErrLinkNotFound):
					taken[slotID] = true
					uc.logger.Warn("UpdateBooking: link slot=%d of booking=%d taken by cancellation", slotID, booking.ID)
					return nil
				default:
					taken[slotID] = true
					uc.deferUnlink(ctx, booking.ID, slotID, booking.Units, err)
					return err
				}
			},
		})
	}

	// 5.4. Бронирование обновляется последним
	oldEnd, oldCount := booking.EndTime, booking.SlotCount
	booking.EndTime = extra[len(extra)-1].EndTime
	booking.SlotCount = len(links) + len(extra)
	if err := uc.bookingRepo.Update(ctx, booking, booking.Units, oldCount); err != nil {
		booking.EndTime, booking.SlotCount = oldEnd, oldCount
		journal.Unwind(ctx, domain.ReasonEditCompensationFail)
		return nil, uc.updateError(booking.ID, err)
	}
	journal.Commit()

	uc.logger.Info("UpdateBooking: booking=%d extended by %d slots to %s", booking.ID, len(extra), booking.EndTime)
	return toResponse(booking, append(slotIDs(links), domain.SlotIDs(extra)...), nil), nil
}

// shrink отрезает хвост серии слотов симулятора
// Бронирование меняется первым: после этого хвост уже не принадлежит брони,
// и каждый отвязанный слот освобождается ровно один раз
func (uc *UseCase) shrink(
	ctx context.Context,
	booking *domain.Booking,
	links []*domain.SlotBookingLink,
	keep int,
) (*Response, error) {
	kept, tail := links[:keep], links[keep:]

	lastKept, err := uc.slotRepo.GetByID(ctx, kept[len(kept)-1].SlotID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get slot=%d: %v", kept[len(kept)-1].SlotID, err)
		return nil, fmt.Errorf("%w: get slot: %v", ErrInternal, err)
	}

	// 5.1. Обновляем бронирование, только если его никто не изменил
	oldEnd, oldCount := booking.EndTime, booking.SlotCount
	booking.EndTime = lastKept.EndTime
	booking.SlotCount = keep
	if err := uc.bookingRepo.Update(ctx, booking, booking.Units, oldCount); err != nil {
		booking.EndTime, booking.SlotCount = oldEnd, oldCount
		return nil, uc.updateError(booking.ID, err)
	}

	// Дальше бронирование уже короче, хвост должен быть отвязан до конца
	ctx = context.WithoutCancel(ctx)

	// 5.2. Отвязываем хвост с конца
	var unlinked, pending []int64
	for i := len(tail) - 1; i >= 0; i-- {
		link := tail[i]
		err := uc.linkRepo.DeleteOne(ctx, booking.ID, link.SlotID)
		switch {
		case err == nil:
			unlinked = append(unlinked, link.SlotID)
		case errors.Is(err, linkRepo.ErrLinkNotFound):
			uc.logger.Warn("UpdateBooking: link slot=%d of booking=%d taken by cancellation", link.SlotID, booking.ID)
		default:
			uc.logger.Error("UpdateBooking: failed to unlink slot=%d from booking=%d: %v", link.SlotID, booking.ID, err)
			uc.deferUnlink(ctx, booking.ID, link.SlotID, link.Units, err)
			pending = append(pending, link.SlotID)
		}
	}

	// 5.3. Освобождаем отвязанные слоты
	pending = append(pending, uc.releaseAll(ctx, booking.ID, unlinked, booking.Units, domain.ReasonEditReleasePending)...)

	uc.logger.Info("UpdateBooking: booking=%d shortened by %d slots to %s", booking.ID, len(tail), booking.EndTime)
	return toResponse(booking, slotIDs(kept), pending), nil
}

// deferUnlink ставит задачу сверки на слот, связь которого удалить не удалось
// Сверка освободит емкость, только если сама удалит эту связь
func (uc *UseCase) deferUnlink(ctx context.Context, bookingID, slotID int64, units int, cause error) {
	task := compensation.NewTask(bookingID, slotID, units, domain.ReasonEditUnlinkPending, cause)
	if err := uc.taskRepo.Create(context.WithoutCancel(ctx), task); err != nil {
		uc.logger.Error("UpdateBooking: RECONCILIATION REQUIRED slot=%d units=%d booking=%d, failed to store task: %v",
			slotID, units, bookingID, err)
		return
	}
	uc.logger.Warn("UpdateBooking: stored reconciliation task=%s slot=%d units=%d", task.ID, slotID, units)
}

// updateError переводит ошибку условного обновления бронирования
func (uc *UseCase) updateError(bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingConflict) {
		uc.logger.Warn("UpdateBooking: booking=%d changed or cancelled concurrently", bookingID)
		return fmt.Errorf("%w: booking %d", ErrConflict, bookingID)
	}
	uc.logger.Error("UpdateBooking: failed to update booking=%d: %v", bookingID, err)
	return fmt.Errorf("%w: update booking: %v", ErrPersistenceFailure, err)
}

// releaseAll освобождает units на каждом слоте и ставит задачу сверки на каждый неудачный
func (uc *UseCase) releaseAll(ctx context.Context, bookingID int64, ids []int64, units int, reason string) []int64 {
	ctx = context.WithoutCancel(ctx)

	var pending []int64
	for _, id := range ids {
		err := uc.ledger.Release(ctx, id, units)
		if err == nil {
			continue
		}

		uc.logger.Error("UpdateBooking: failed to release slot=%d units=%d: %v", id, units, err)
		pending = append(pending, id)

		task := compensation.NewTask(bookingID, id, units, reason, err)
		if err := uc.taskRepo.Create(ctx, task); err != nil {
			uc.logger.Error("UpdateBooking: RECONCILIATION REQUIRED slot=%d units=%d booking=%d, failed to store task: %v",
				id, units, bookingID, err)
		}
	}
	return pending
}

func (uc *UseCase) reserveError(slotID int64, err error) error {
	if errors.Is(err, ledger.ErrInsufficientCapacity) || errors.Is(err, ledger.ErrSlotNotFound) {
		uc.logger.Warn("UpdateBooking: slot=%d taken concurrently: %v", slotID, err)
		return fmt.Errorf("%w: slot %d", ErrSlotNoLongerAvailable, slotID)
	}
	uc.logger.Error("UpdateBooking: reserve slot=%d failed: %v", slotID, err)
	return fmt.Errorf("%w: reserve slot %d: %v", ErrPersistenceFailure, slotID, err)
}

func (uc *UseCase) hasStarted(b *domain.Booking) bool {
	now := uc.timeProvider.Now()
	today := domain.DateOnly(now)
	day := domain.DateOnly(b.SlotDate)
	if day.Before(today) {
		return true
	}
	return day.Equal(today) && !b.StartTime.IsAfter(types.NewTimeString(now))
}

func validateSize(cfg *domain.ResourceConfig, units int) error {
	if !cfg.IsExclusive() {
		if units > cfg.SlotCapacity {
			return fmt.Errorf("%w: %d players, capacity is %d", ErrPartySizeExceeded, units, cfg.SlotCapacity)
		}
		return nil
	}
	if cfg.MaxSlotsPerBooking > 0 && units > cfg.MaxSlotsPerBooking {
		return fmt.Errorf("%w: %d slots, at most %d allowed", ErrDurationExceeded, units, cfg.MaxSlotsPerBooking)
	}
	if cfg.MaxBookingMinutes > 0 && units*cfg.SlotIntervalMinutes > cfg.MaxBookingMinutes {
		return fmt.Errorf("%w: %d minutes, at most %d allowed", ErrDurationExceeded,
			units*cfg.SlotIntervalMinutes, cfg.MaxBookingMinutes)
	}
	return nil
}

func slotIDs(links []*domain.SlotBookingLink) []int64 {
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.SlotID)
	}
	return ids
}

func toResponse(b *domain.Booking, ids []int64, pending []int64) *Response {
	return &Response{
		ID:             b.ID,
		Lane:           b.Lane,
		SlotDate:       b.SlotDate,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Units:          b.Units,
		SlotCount:      b.SlotCount,
		SlotIDs:        ids,
		PendingSlotIDs: pending,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientRun):
		return "insufficient_run"
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return "slot_no_longer_available"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_failure"
	case errors.Is(err, ErrInternal):
		return "internal_error"
	default:
		return "rejected"
	}
}
