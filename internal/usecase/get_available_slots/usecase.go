package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-TeeTimeService/pkg/ptr"
)

// UseCase use case для получения слотов ресурса на дату
type UseCase struct {
	resourceRepo ResourceRepository
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	slotRepo SlotRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%d, date=%s, lane=%d",
		req.ResourceID, req.Date.Format(domain.DateFormat), ptr.Value(req.Lane))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем конфигурацию ресурса
	cfg, err := uc.resourceRepo.GetByResourceID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%d not configured", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	if err := validateLane(cfg, req.Lane); err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	resp := &Response{
		ResourceID: cfg.ResourceID,
		Kind:       cfg.Kind,
		Date:       domain.DateOnly(req.Date),
		Slots:      []Slot{},
	}

	// 3. Прошедшие даты не бронируются: пустой список
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: %s is in the past", req.Date.Format(domain.DateFormat))
		return resp, nil
	}
	if err := validateHorizon(req.Date, now, cfg.BookingHorizonDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Читаем слоты
	var stored []*domain.Slot
	if req.Lane != nil {
		stored, err = uc.slotRepo.ListLane(ctx, cfg.ResourceID, req.Lane, resp.Date)
	} else {
		stored, err = uc.slotRepo.ListByDate(ctx, cfg.ResourceID, resp.Date)
	}
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 5. Строим ответ
	resp.Slots = buildSlots(stored, resp.Date, now, req.OnlyAvailable)

	uc.logger.Info("GetAvailableSlots: %d slots for resource=%d, date=%s",
		len(resp.Slots), cfg.ResourceID, resp.Date.Format(domain.DateFormat))
	return resp, nil
}
