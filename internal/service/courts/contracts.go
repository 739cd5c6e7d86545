package courts

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	List(ctx context.Context) ([]*domain.Court, error)
	ListTypes(ctx context.Context) ([]*domain.CourtType, error)
	Update(ctx context.Context, id int64, update domain.CourtUpdate) (*domain.Court, error)
	UpdateTypeRate(ctx context.Context, typeID int64, rate decimal.Decimal) (*domain.CourtType, error)
}

// AvailabilityCache кэш доступности; ставка входит в ответ, поэтому сбрасывается целиком
type AvailabilityCache interface {
	InvalidateAll(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
