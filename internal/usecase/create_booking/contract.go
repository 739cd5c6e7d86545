package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Court, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateDetail(ctx context.Context, detail *domain.BookingDetail) (*domain.BookingDetail, error)
	FindOverlapping(ctx context.Context, courtID int64, date, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	LockCourtDay(ctx context.Context, courtID int64, date time.Time) error
}

// HistoryRepository интерфейс журнала статусов
type HistoryRepository interface {
	Append(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.BookingHistory, error)
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

// IDGenerator генератор публичных идентификаторов (для тестирования)
type IDGenerator interface {
	New() uuid.UUID
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RandomIDGenerator UUID v4
type RandomIDGenerator struct{}

// New возвращает случайный UUID
func (g *RandomIDGenerator) New() uuid.UUID {
	return uuid.New()
}
