package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Court, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListByCourtAndDate возвращает активные бронирования корта на дату, отсортированные по началу
	ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error)
}

// AvailabilityCache кэш готовых ответов по паре (корт, дата)
// Set сохраняет ответ, только если версия, прочитанная через Version, не изменилась
type AvailabilityCache interface {
	Get(ctx context.Context, courtID int64, date time.Time) (*domain.Availability, bool, error)
	Version(ctx context.Context, courtID int64, date time.Time) (string, error)
	Set(ctx context.Context, courtID int64, date time.Time, version string, availability *domain.Availability) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
