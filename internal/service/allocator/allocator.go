// Package allocator поиск цепочек смежных свободных слотов на одной дорожке ресурса.
// Ничего не пишет: цепочка это план, который к моменту резервирования может устареть.
package allocator

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	slotRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/slot"
)

// Request параметры искомой цепочки
// MaxMinutes и MaxSlots ограничения политики; ноль отключает ограничение
type Request struct {
	ResourceID     int64
	Lane           *int
	StartSlotID    int64
	RequestedSlots int
	MaxMinutes     int
	MaxSlots       int
}

// Allocator сервис для подбора последовательных слотов
type Allocator struct {
	slots SlotRepository
	links LinkRepository
}

// NewAllocator создает новый экземпляр сервиса
func NewAllocator(slots SlotRepository, links LinkRepository) *Allocator {
	return &Allocator{slots: slots, links: links}
}

// Allocate возвращает цепочку, начинающуюся со StartSlotID
// Стартовый слот всегда входит в цепочку; допустима ли короткая цепочка, решает вызывающий
func (a *Allocator) Allocate(ctx context.Context, req Request) ([]*domain.Slot, error) {
	if req.RequestedSlots <= 0 {
		return nil, fmt.Errorf("%w: requested slots must be positive", ErrInvalidRequest)
	}

	lane, idx, err := a.loadLane(ctx, req)
	if err != nil {
		return nil, err
	}

	start := lane[idx]
	run := []*domain.Slot{start}
	if reachedCap(run, start.DurationMinutes(), req) {
		return run, nil
	}

	return a.extend(ctx, run, start, lane[idx+1:], start.DurationMinutes(), req)
}

// AllocateAfter возвращает цепочку сразу после StartSlotID (продление бронирования)
// Сам якорь в результат не входит, результат может быть пустым
// Ограничения применяются только к возвращенным слотам
func (a *Allocator) AllocateAfter(ctx context.Context, req Request) ([]*domain.Slot, error) {
	if req.RequestedSlots <= 0 {
		return nil, fmt.Errorf("%w: requested slots must be positive", ErrInvalidRequest)
	}

	lane, idx, err := a.loadLane(ctx, req)
	if err != nil {
		return nil, err
	}

	return a.extend(ctx, []*domain.Slot{}, lane[idx], lane[idx+1:], 0, req)
}

// extend добавляет кандидатов, пока каждый начинается там, где закончился предыдущий,
// не имеет связей и цепочка укладывается в ограничения
func (a *Allocator) extend(ctx context.Context, run []*domain.Slot, prev *domain.Slot, candidates []*domain.Slot, minutes int, req Request) ([]*domain.Slot, error) {
	limit := req.RequestedSlots - len(run)
	if req.MaxSlots > 0 && req.MaxSlots-len(run) < limit {
		limit = req.MaxSlots - len(run)
	}
	if limit <= 0 || len(candidates) == 0 {
		return run, nil
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	occupied, err := a.links.CountBySlotIDs(ctx, domain.SlotIDs(candidates))
	if err != nil {
		return nil, fmt.Errorf("%w: count links: %v", ErrInternal, err)
	}

	for _, next := range candidates {
		if !next.StartTime.Equal(prev.EndTime) {
			break
		}
		if occupied[next.ID] > 0 {
			break
		}
		if req.MaxMinutes > 0 && minutes+next.DurationMinutes() > req.MaxMinutes {
			break
		}

		run = append(run, next)
		minutes += next.DurationMinutes()
		prev = next
	}

	return run, nil
}

// loadLane загружает дорожку якоря на его дату и индекс якоря в ней
func (a *Allocator) loadLane(ctx context.Context, req Request) ([]*domain.Slot, int, error) {
	anchor, err := a.slots.GetByID(ctx, req.StartSlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, 0, ErrSlotNotFound
		}
		return nil, 0, fmt.Errorf("%w: get slot=%d: %v", ErrInternal, req.StartSlotID, err)
	}

	if anchor.ResourceID != req.ResourceID {
		return nil, 0, fmt.Errorf("%w: slot=%d belongs to resource=%d", ErrSlotMismatch, anchor.ID, anchor.ResourceID)
	}
	if req.Lane != nil && !domain.SameLane(anchor.Lane, req.Lane) {
		return nil, 0, fmt.Errorf("%w: slot=%d is on another lane", ErrSlotMismatch, anchor.ID)
	}

	lane, err := a.slots.ListLane(ctx, anchor.ResourceID, anchor.Lane, anchor.SlotDate)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list lane: %v", ErrInternal, err)
	}

	for i, s := range lane {
		if s.ID == anchor.ID {
			return lane, i, nil
		}
	}

	// Удален между двумя чтениями (перегенерация)
	return nil, 0, ErrSlotNotFound
}

func reachedCap(run []*domain.Slot, minutes int, req Request) bool {
	if len(run) >= req.RequestedSlots {
		return true
	}
	if req.MaxSlots > 0 && len(run) >= req.MaxSlots {
		return true
	}
	return req.MaxMinutes > 0 && minutes >= req.MaxMinutes
}
