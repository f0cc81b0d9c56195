package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
// Запись идет только через usecase create/update/cancel
type Service struct {
	bookingRepo BookingRepository
	linkRepo    LinkRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	linkRepo LinkRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		linkRepo:    linkRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID вместе со слотами
// Пользователь может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, id int64, requesterID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for requester=%s", id, requesterID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !booking.IsOwnedBy(requesterID) {
		s.logger.Warn("GetByID: access denied for requester=%s to booking id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	links, err := s.linkRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		s.logger.Error("GetByID: failed to list slots of booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - list links: %v", ErrInternal, err)
	}

	resp := models.FromDomainBooking(booking)
	resp.SlotIDs = make([]int64, 0, len(links))
	for _, l := range links {
		resp.SlotIDs = append(resp.SlotIDs, l.SlotID)
	}

	return resp, nil
}

// GetRequesterBookings получает бронирования пользователя, новые первыми
func (s *Service) GetRequesterBookings(ctx context.Context, requesterID string) (*models.BookingListResponse, error) {
	s.logger.Info("GetRequesterBookings: fetching bookings for requester=%s", requesterID)

	if requesterID == "" {
		return nil, fmt.Errorf("%w: requester is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		s.logger.Error("GetRequesterBookings: repository error for requester=%s: %v", requesterID, err)
		return nil, fmt.Errorf("%w: GetRequesterBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRequesterBookings: fetched %d bookings for requester=%s", len(bookings), requesterID)
	return models.FromDomainBookingList(bookings), nil
}
