package update_court_type

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
)

type CourtService interface {
	UpdateTypeRate(ctx context.Context, typeID int64, rate decimal.Decimal) (*models.CourtTypeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
