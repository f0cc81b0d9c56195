package bookings

import (
	"context"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.Booking, error)
}

// LinkRepository интерфейс репозитория связей слот-бронирование
type LinkRepository interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.SlotBookingLink, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
