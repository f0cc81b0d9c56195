package regenerate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/slots"
)

const operation = "regenerate"

// UseCase use case для перегенерации слотов после изменения настроек
// Занятые слоты никогда не удаляются: условие booked_count = 0 проверяется в самом DELETE
type UseCase struct {
	resourceRepo ResourceRepository
	slotRepo     SlotRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	slotRepo SlotRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		slotRepo:     slotRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute перегенерирует слоты ресурса по дням диапазона
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveOperation(operation, outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RegenerateSlots: resource=%d from=%s to=%s",
		req.ResourceID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Получаем конфигурацию ресурса
	cfg, err := uc.resourceRepo.GetByResourceID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrConfigNotFound) {
			uc.logger.Warn("RegenerateSlots: resource=%d not configured", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("RegenerateSlots: failed to get config for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: RegenerateSlots - get config: %v", ErrInternal, err)
	}

	// 2. Ограничиваем диапазон сегодняшним днем и горизонтом бронирования
	dates, err := uc.clamp(req, cfg)
	if err != nil {
		uc.logger.Warn("RegenerateSlots: %v", err)
		return nil, err
	}

	// 3. Строим слоты в памяти
	generated, err := slots.Generate(cfg, dates)
	if err != nil {
		uc.logger.Error("RegenerateSlots: generation failed for resource=%d: %v", cfg.ResourceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	byDay := make(map[time.Time][]*domain.Slot)
	for _, s := range generated {
		day := domain.DateOnly(s.SlotDate)
		byDay[day] = append(byDay[day], s)
	}

	resp := &Response{ResourceID: cfg.ResourceID, From: dates.From, To: dates.To}

	// 4. По каждому дню: удаляем свободные, вставляем новые вокруг сохраненных
	for _, day := range dates.Days() {
		if err := uc.regenerateDay(ctx, cfg.ResourceID, day, byDay[day], resp); err != nil {
			return nil, err
		}
	}

	uc.metrics.AddSlotsGenerated(resp.Inserted)
	uc.logger.Info("RegenerateSlots: resource=%d deleted=%d inserted=%d preserved=%d skipped=%d",
		cfg.ResourceID, resp.Deleted, resp.Inserted, resp.Preserved, resp.Skipped)
	return resp, nil
}

func (uc *UseCase) regenerateDay(ctx context.Context, resourceID int64, day time.Time, generated []*domain.Slot, resp *Response) error {
	deleted, err := uc.slotRepo.DeleteUnbooked(ctx, resourceID, day)
	if err != nil {
		uc.logger.Error("RegenerateSlots: failed to delete unbooked slots for %s: %v", day.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: RegenerateSlots - delete unbooked: %v", ErrInternal, err)
	}
	resp.Deleted += deleted

	preserved, err := uc.slotRepo.ListByDate(ctx, resourceID, day)
	if err != nil {
		uc.logger.Error("RegenerateSlots: failed to list preserved slots for %s: %v", day.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: RegenerateSlots - list preserved: %v", ErrInternal, err)
	}
	resp.Preserved += len(preserved)
	for _, p := range preserved {
		// связи есть, а емкость свободна: освобождение ждет сверки
		if p.IsUnbooked() {
			resp.PendingRelease++
			uc.logger.Warn("RegenerateSlots: preserved slot=%d has links but nothing booked", p.ID)
		}
	}

	fresh := make([]*domain.Slot, 0, len(generated))
	for _, s := range generated {
		if overlapsAny(s, preserved) {
			resp.Skipped++
			continue
		}
		fresh = append(fresh, s)
	}

	inserted, err := uc.slotRepo.CreateBatch(ctx, fresh)
	if err != nil {
		uc.logger.Error("RegenerateSlots: failed to insert slots for %s: %v", day.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: RegenerateSlots - insert: %v", ErrInternal, err)
	}
	resp.Inserted += inserted
	return nil
}

// clamp приводит запрошенный диапазон к [сегодня, сегодня+горизонт]
func (uc *UseCase) clamp(req *Request, cfg *domain.ResourceConfig) (domain.DateRange, error) {
	dates, err := domain.NewDateRange(req.From, req.To)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}

	today := domain.DateOnly(uc.timeProvider.Now())
	if dates.From.Before(today) {
		dates.From = today
	}
	if cfg.HasBookingHorizon() {
		if last := today.AddDate(0, 0, cfg.BookingHorizonDays); dates.To.After(last) {
			dates.To = last
		}
	}
	if dates.To.Before(dates.From) {
		return domain.DateRange{}, fmt.Errorf("%w: nothing left between today and the booking horizon", ErrInvalidDateRange)
	}
	if dates.Len() > domain.MaxRegenerateDays {
		return domain.DateRange{}, fmt.Errorf("%w: at most %d days at once", ErrInvalidDateRange, domain.MaxRegenerateDays)
	}
	return dates, nil
}

func overlapsAny(s *domain.Slot, preserved []*domain.Slot) bool {
	for _, p := range preserved {
		if s.Overlaps(p) {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInternal):
		return "internal_error"
	default:
		return "rejected"
	}
}
