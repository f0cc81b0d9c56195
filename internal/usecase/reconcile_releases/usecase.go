package reconcile_releases

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking"
	linkRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking_slot"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/ledger"
)

// DefaultBatchSize задач за один проход
const DefaultBatchSize = 100

// UseCase use case повторного освобождения емкости
// Обрабатывает задачи, оставленные частичной отменой или неудачной компенсацией
type UseCase struct {
	taskRepo    TaskRepository
	bookingRepo BookingRepository
	linkRepo    LinkRepository
	ledger      Ledger
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	taskRepo TaskRepository,
	bookingRepo BookingRepository,
	linkRepo LinkRepository,
	ledger Ledger,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		taskRepo:    taskRepo,
		bookingRepo: bookingRepo,
		linkRepo:    linkRepo,
		ledger:      ledger,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute обрабатывает до batchSize самых старых задач
func (uc *UseCase) Execute(ctx context.Context, batchSize int) (*Result, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive", ErrInvalidInput)
	}

	// 1. Берем самые старые задачи
	tasks, err := uc.taskRepo.ListPending(ctx, batchSize)
	if err != nil {
		uc.logger.Error("ReconcileReleases: failed to list tasks: %v", err)
		return nil, fmt.Errorf("%w: ReconcileReleases - list tasks: %v", ErrInternal, err)
	}

	result := &Result{}
	if len(tasks) == 0 {
		return result, nil
	}
	uc.logger.Info("ReconcileReleases: processing %d tasks", len(tasks))

	// 2. Обрабатываем по одной; ошибка одной задачи не останавливает проход
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}

		outcome := uc.process(ctx, task)
		uc.metrics.ObserveReconciliation(outcome)
		result.Processed++
		switch outcome {
		case OutcomeReleased:
			result.Released++
		case OutcomeDropped:
			result.Dropped++
		case OutcomeCorrupt:
			result.Corrupt++
		default:
			result.Failed++
		}
	}

	uc.logger.Info("ReconcileReleases: processed=%d released=%d dropped=%d corrupt=%d failed=%d",
		result.Processed, result.Released, result.Dropped, result.Corrupt, result.Failed)
	return result, nil
}

func (uc *UseCase) process(ctx context.Context, task *domain.ReconciliationTask) string {
	// 2.1. Бронирование неудачного создания еще существует: сначала удаляем его
	if task.DeletesBooking() {
		err := uc.bookingRepo.Delete(ctx, task.BookingID)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ReconcileReleases: task=%s failed to delete booking=%d: %v", task.ID, task.BookingID, err)
			uc.markAttempt(ctx, task, err)
			return OutcomeFailed
		}
	}

	// 2.2. Слот больше не принадлежит бронированию: убираем связь
	if task.DetachesLink() {
		err := uc.linkRepo.DeleteOne(ctx, task.BookingID, task.SlotID)
		switch {
		case errors.Is(err, linkRepo.ErrLinkNotFound) && task.OwnsLink():
			// связь забрала отмена вместе с емкостью
			uc.finish(ctx, task)
			uc.logger.Info("ReconcileReleases: task=%s slot=%d already released by cancellation, dropped", task.ID, task.SlotID)
			return OutcomeDropped
		case err != nil && !errors.Is(err, linkRepo.ErrLinkNotFound):
			uc.logger.Warn("ReconcileReleases: task=%s failed to unlink slot=%d: %v", task.ID, task.SlotID, err)
			uc.markAttempt(ctx, task, err)
			return OutcomeFailed
		}
	}

	// 2.3. Возвращаем емкость
	err := uc.ledger.Release(ctx, task.SlotID, task.Units)
	switch {
	case err == nil:
		uc.finish(ctx, task)
		uc.logger.Info("ReconcileReleases: task=%s released slot=%d units=%d", task.ID, task.SlotID, task.Units)
		return OutcomeReleased
	case errors.Is(err, ledger.ErrSlotNotFound):
		uc.finish(ctx, task)
		uc.logger.Warn("ReconcileReleases: task=%s slot=%d no longer exists, dropped", task.ID, task.SlotID)
		return OutcomeDropped
	case errors.Is(err, ledger.ErrCorruptState):
		uc.logger.Error("ReconcileReleases: task=%s slot=%d would corrupt counters, left for an operator", task.ID, task.SlotID)
		uc.markAttempt(ctx, task, err)
		return OutcomeCorrupt
	default:
		uc.logger.Warn("ReconcileReleases: task=%s slot=%d attempt %d failed: %v", task.ID, task.SlotID, task.Attempts+1, err)
		uc.markAttempt(ctx, task, err)
		return OutcomeFailed
	}
}

// finish удаляет выполненную задачу
// Если удаление не прошло, следующий проход освободит слот повторно
func (uc *UseCase) finish(ctx context.Context, task *domain.ReconciliationTask) {
	if err := uc.taskRepo.Delete(context.WithoutCancel(ctx), task.ID); err != nil {
		uc.logger.Error("ReconcileReleases: task=%s applied but not deleted, slot=%d may be released twice: %v",
			task.ID, task.SlotID, err)
	}
}

func (uc *UseCase) markAttempt(ctx context.Context, task *domain.ReconciliationTask, cause error) {
	if err := uc.taskRepo.MarkAttempt(ctx, task.ID, cause.Error()); err != nil {
		uc.logger.Error("ReconcileReleases: task=%s failed to record attempt: %v", task.ID, err)
	}
}
