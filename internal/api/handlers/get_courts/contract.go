package get_courts

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
)

type CourtService interface {
	List(ctx context.Context) (*models.CourtListResponse, error)
}

type Logger interface {
	Error(format string, v ...interface{})
}
