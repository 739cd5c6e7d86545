package get_admin_bookings

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

type BookingService interface {
	ListAll(ctx context.Context, page int) (*models.BookingListResponse, error)
}

type Logger interface {
	Error(format string, v ...interface{})
}
