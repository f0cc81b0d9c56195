package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources/models"
)

// Service сервис настроек ресурсов
// Единственный writer конфигураций; ядро бронирования их только читает
type Service struct {
	resourceRepo ResourceRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(resourceRepo ResourceRepository, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// Get получает конфигурацию ресурса
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, resourceID int64) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config for resource=%d", resourceID)

	cfg, err := s.resourceRepo.GetByResourceID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrConfigNotFound) {
			s.logger.Warn("Get: config for resource=%d not found", resourceID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("Get: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// Save создает или заменяет конфигурацию ресурса, увеличивая Version
// Слоты не трогает: вызывающий запускает перегенерацию
func (s *Service) Save(ctx context.Context, req *models.SaveConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Save: saving config for resource=%d kind=%s lanes=%d", req.ResourceID, req.Kind, req.LaneCount)

	// 1. Собираем конфигурацию с дефолтами
	cfg := req.ToDomainConfig()

	// 2. Валидируем
	if err := validateConfig(cfg); err != nil {
		s.logger.Warn("Save: validation failed for resource=%d: %v", req.ResourceID, err)
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.resourceRepo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error("Save: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Save: resource=%d saved with version=%d", saved.ResourceID, saved.Version)
	return models.FromDomainConfig(saved), nil
}

// ListResourceIDs возвращает все настроенные ресурсы
func (s *Service) ListResourceIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.resourceRepo.ListResourceIDs(ctx)
	if err != nil {
		s.logger.Error("ListResourceIDs: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListResourceIDs - repository error: %v", ErrInternal, err)
	}
	return ids, nil
}

// validateConfig валидирует параметры конфигурации
func validateConfig(cfg *domain.ResourceConfig) error {
	if cfg.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}

	if !cfg.Kind.IsValid() {
		return fmt.Errorf("%w: kind must be %q or %q", ErrInvalidInput, domain.ResourceKindShared, domain.ResourceKindExclusive)
	}

	// Проверяем число дорожек
	if cfg.LaneCount < domain.MinLaneCount || cfg.LaneCount > domain.MaxLaneCount {
		return fmt.Errorf("%w: laneCount must be between %d and %d", ErrInvalidInput, domain.MinLaneCount, domain.MaxLaneCount)
	}
	if !cfg.IsExclusive() && cfg.LaneCount != 1 {
		return fmt.Errorf("%w: a shared resource has exactly one tee sheet", ErrInvalidInput)
	}

	// Проверяем интервал
	if cfg.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || cfg.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	// Проверяем окно работы
	if err := cfg.FirstTime.Validate(); err != nil {
		return fmt.Errorf("%w: firstTime: %v", ErrInvalidInput, err)
	}
	if err := cfg.LastTime.Validate(); err != nil {
		return fmt.Errorf("%w: lastTime: %v", ErrInvalidInput, err)
	}
	if !cfg.FirstTime.IsBefore(cfg.LastTime) {
		return fmt.Errorf("%w: firstTime must be before lastTime", ErrInvalidInput)
	}

	// Проверяем емкость
	if cfg.SlotCapacity < domain.MinSlotCapacity || cfg.SlotCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: slotCapacity must be between %d and %d", ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	// Проверяем горизонт и лимиты
	if cfg.BookingHorizonDays < 0 || cfg.BookingHorizonDays > domain.MaxBookingHorizonDays {
		return fmt.Errorf("%w: bookingHorizonDays must be between 0 and %d", ErrInvalidInput, domain.MaxBookingHorizonDays)
	}
	if cfg.MaxBookingMinutes < 0 || cfg.MaxSlotsPerBooking < 0 {
		return fmt.Errorf("%w: booking caps must not be negative", ErrInvalidInput)
	}
	if cfg.MaxBookingMinutes > 0 && cfg.MaxBookingMinutes < cfg.SlotIntervalMinutes {
		return fmt.Errorf("%w: maxBookingMinutes is shorter than one slot", ErrInvalidInput)
	}

	return nil
}
