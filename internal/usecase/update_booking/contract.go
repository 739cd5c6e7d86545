package update_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	FindOverlapping(ctx context.Context, courtID int64, date, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	UpdateSchedule(ctx context.Context, booking *domain.Booking) error
	UpdateDetail(ctx context.Context, detail *domain.BookingDetail) error
	LockCourtDay(ctx context.Context, courtID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker распределённая блокировка пары (корт, дата)
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// AvailabilityCache кэш доступности, сбрасывается после записи
type AvailabilityCache interface {
	Invalidate(ctx context.Context, courtID int64, dates ...time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
