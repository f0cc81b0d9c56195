package roll_horizon

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

// DefaultConcurrency ресурсов, перегенерируемых одновременно
const DefaultConcurrency = 4

// UseCase use case продления слотов на окно бронирования для всех ресурсов
// Каждый день окно сдвигается на сутки вперед, и новые даты нужно заполнить слотами
type UseCase struct {
	resourceRepo ResourceRepository
	regenerator  Regenerator
	concurrency  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(resourceRepo ResourceRepository, regenerator Regenerator, logger Logger) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		regenerator:  regenerator,
		concurrency:  DefaultConcurrency,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute перегенерирует слоты каждого ресурса на [сегодня, сегодня+горизонт]
// Ошибка одного ресурса не останавливает остальные
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	// 1. Получаем список ресурсов
	ids, err := uc.resourceRepo.ListResourceIDs(ctx)
	if err != nil {
		uc.logger.Error("RollHorizon: failed to list resources: %v", err)
		return nil, fmt.Errorf("%w: RollHorizon - list resources: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	result := &Result{Resources: len(ids)}
	var mu sync.Mutex

	// 2. Перегенерируем ресурсы параллельно с ограничением
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			resp, err := uc.rollOne(gctx, id, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, id)
				return nil
			}
			result.Inserted += resp.Inserted
			result.Deleted += resp.Deleted
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i] < result.Failed[j] })
	uc.logger.Info("RollHorizon: resources=%d inserted=%d deleted=%d failed=%v",
		result.Resources, result.Inserted, result.Deleted, result.Failed)
	return result, nil
}

func (uc *UseCase) rollOne(ctx context.Context, resourceID int64, now time.Time) (*regenerateSlots.Response, error) {
	cfg, err := uc.resourceRepo.GetByResourceID(ctx, resourceID)
	if err != nil {
		uc.logger.Error("RollHorizon: failed to get config for resource=%d: %v", resourceID, err)
		return nil, err
	}

	window := cfg.SlotWindow(now)
	resp, err := uc.regenerator.Execute(ctx, &regenerateSlots.Request{
		ResourceID: resourceID,
		From:       window.From,
		To:         window.To,
	})
	if err != nil {
		uc.logger.Error("RollHorizon: failed to regenerate resource=%d: %v", resourceID, err)
		return nil, err
	}
	return resp, nil
}
