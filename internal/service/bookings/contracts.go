package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, reason *string) error
}

// HistoryRepository интерфейс журнала статусов
type HistoryRepository interface {
	Append(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.BookingHistory, error)
	ListByBookingID(ctx context.Context, bookingID int64) ([]*domain.BookingHistory, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache кэш доступности, сбрасывается после смены статуса
type AvailabilityCache interface {
	Invalidate(ctx context.Context, courtID int64, dates ...time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
