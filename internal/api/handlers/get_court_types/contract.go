package get_court_types

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
)

type CourtService interface {
	ListTypes(ctx context.Context) (*models.CourtTypeListResponse, error)
}

type Logger interface {
	Error(format string, v ...interface{})
}
