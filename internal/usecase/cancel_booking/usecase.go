package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/compensation"
)

const operation = "cancel"

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo BookingRepository
	linkRepo    LinkRepository
	taskRepo    TaskRepository
	ledger      Ledger
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	linkRepo LinkRepository,
	taskRepo TaskRepository,
	ledger Ledger,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		linkRepo:    linkRepo,
		taskRepo:    taskRepo,
		ledger:      ledger,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет отмену бронирования
// Порядок: удаление бронирования, удаление связей, освобождение слотов.
// Освобождается ровно то, что вернуло удаление связей: параллельное редактирование
// могло изменить units после шага 1.
// Ошибка после удаления бронирования возвращается как *PartialError
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveOperation(operation, outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d requester=%q", req.BookingID, req.RequesterID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	// 1. Загружаем связи бронирования
	links, err := uc.linkRepo.ListByBooking(ctx, req.BookingID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to list links for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: CancelBooking - list links: %v", ErrInternal, err)
	}
	if len(links) == 0 {
		uc.logger.Warn("CancelBooking: booking=%d has no links", req.BookingID)
		return nil, ErrNotFound
	}

	// 2. Проверяем бронирование и владельца
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking=%d not found, %d links left behind", req.BookingID, len(links))
			return nil, ErrNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: CancelBooking - get booking: %v", ErrInternal, err)
	}
	if req.RequesterID != "" && !booking.IsOwnedBy(req.RequesterID) {
		uc.logger.Warn("CancelBooking: requester=%q does not own booking=%d", req.RequesterID, booking.ID)
		return nil, ErrAccessDenied
	}

	// 3. Удаляем бронирование первым: лучше занятый слот без брони, чем живая бронь без емкости
	if err := uc.bookingRepo.Delete(ctx, booking.ID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking=%d deleted concurrently", booking.ID)
			return nil, ErrNotFound
		}
		uc.logger.Error("CancelBooking: failed to delete booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: CancelBooking - delete booking: %v", ErrPersistenceFailure, err)
	}

	// Дальше бронирования уже нет, отмена должна дойти до конца
	ctx = context.WithoutCancel(ctx)

	// 4. Удаляем связи и получаем их фактическое состояние
	deleted, err := uc.linkRepo.DeleteByBooking(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to delete links for booking=%d: %v", booking.ID, err)
		return nil, uc.partial(ctx, booking.ID, uc.currentLinks(ctx, booking.ID, links), err)
	}
	inReadOrder(deleted, links)

	// 5. Освобождаем емкость на каждом удаленном слоте; продолжаем после ошибок
	released := make([]int64, 0, len(deleted))
	var pending []*domain.SlotBookingLink
	var cause error
	for _, link := range deleted {
		if err := uc.ledger.Release(ctx, link.SlotID, link.Units); err != nil {
			uc.logger.Error("CancelBooking: failed to release slot=%d units=%d: %v", link.SlotID, link.Units, err)
			pending = append(pending, link)
			cause = errors.Join(cause, err)
			continue
		}
		released = append(released, link.SlotID)
	}

	if len(pending) > 0 {
		return nil, uc.partial(ctx, booking.ID, pending, cause)
	}

	uc.logger.Info("CancelBooking: booking=%d cancelled, released %d slots", booking.ID, len(released))
	return &Response{BookingID: booking.ID, ReleasedSlotIDs: released}, nil
}

// currentLinks перечитывает связи после удаления бронирования
// Новое редактирование уже не зафиксируется, поэтому units актуальнее прочитанных на шаге 1
func (uc *UseCase) currentLinks(ctx context.Context, bookingID int64, read []*domain.SlotBookingLink) []*domain.SlotBookingLink {
	links, err := uc.linkRepo.ListByBooking(ctx, bookingID)
	if err != nil || len(links) == 0 {
		return read
	}
	return links
}

// inReadOrder упорядочивает удаленные связи по времени слота, как при чтении
// Связи, которых не было при чтении, идут в конце
func inReadOrder(deleted, read []*domain.SlotBookingLink) {
	pos := make(map[int64]int, len(read))
	for i, link := range read {
		pos[link.SlotID] = i
	}
	sort.SliceStable(deleted, func(i, j int) bool {
		pi, ok := pos[deleted[i].SlotID]
		if !ok {
			pi = len(read)
		}
		pj, ok := pos[deleted[j].SlotID]
		if !ok {
			pj = len(read)
		}
		return pi < pj
	})
}

// partial сохраняет задачу сверки на каждый неосвобожденный слот
func (uc *UseCase) partial(ctx context.Context, bookingID int64, pending []*domain.SlotBookingLink, cause error) *PartialError {
	slotIDs := make([]int64, 0, len(pending))
	for _, link := range pending {
		slotIDs = append(slotIDs, link.SlotID)

		task := compensation.NewTask(bookingID, link.SlotID, link.Units, domain.ReasonCancellationPartial, cause)
		if err := uc.taskRepo.Create(ctx, task); err != nil {
			uc.logger.Error("CancelBooking: RECONCILIATION REQUIRED slot=%d units=%d booking=%d, failed to store task: %v",
				link.SlotID, link.Units, bookingID, err)
			continue
		}
		uc.logger.Warn("CancelBooking: stored reconciliation task=%s slot=%d units=%d", task.ID, link.SlotID, link.Units)
	}

	return &PartialError{BookingID: bookingID, PendingSlotIDs: slotIDs, Cause: cause}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPartial):
		return "partial"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_failure"
	case errors.Is(err, ErrInternal):
		return "internal_error"
	default:
		return "rejected"
	}
}
