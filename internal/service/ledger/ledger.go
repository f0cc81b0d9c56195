// Package ledger счетчики емкости слотов.
package ledger

import (
	"context"
	"errors"
	"fmt"

	slotRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/slot"
)

// Ledger сервис для изменения емкости слотов
// Собственного состояния не хранит: единственный механизм конкурентности это условный UPDATE в хранилище
type Ledger struct {
	slots   SlotRepository
	metrics Metrics
	logger  Logger
}

// NewLedger создает новый экземпляр сервиса
func NewLedger(slots SlotRepository, metrics Metrics, logger Logger) *Ledger {
	return &Ledger{
		slots:   slots,
		metrics: metrics,
		logger:  logger,
	}
}

// TryReserve переносит units из available в booked, если в момент записи available >= units
// Частично не применяется
func (l *Ledger) TryReserve(ctx context.Context, slotID int64, units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}

	applied, err := l.slots.Reserve(ctx, slotID, units)
	if err != nil {
		return fmt.Errorf("%w: TryReserve - slot=%d: %v", ErrInternal, slotID, err)
	}
	if applied {
		return nil
	}

	// UPDATE ничего не изменил: слота нет или он заполнен
	if _, err := l.slots.GetByID(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("%w: TryReserve - reread slot=%d: %v", ErrInternal, slotID, err)
	}

	return ErrInsufficientCapacity
}

// Release возвращает units из booked в available
// Освобождение больше booked возвращает ErrCorruptState и никогда не обрезается
func (l *Ledger) Release(ctx context.Context, slotID int64, units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}

	applied, err := l.slots.Release(ctx, slotID, units)
	if err != nil {
		return fmt.Errorf("%w: Release - slot=%d: %v", ErrInternal, slotID, err)
	}
	if applied {
		return nil
	}

	s, err := l.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("%w: Release - reread slot=%d: %v", ErrInternal, slotID, err)
	}

	l.metrics.IncCorruptState()
	l.logger.Error("Release: CORRUPT STATE slot=%d booked=%d available=%d total=%d release=%d",
		slotID, s.BookedCount, s.AvailableCount, s.TotalCapacity, units)

	return fmt.Errorf("%w: slot=%d booked=%d, release of %d would go negative",
		ErrCorruptState, slotID, s.BookedCount, units)
}
