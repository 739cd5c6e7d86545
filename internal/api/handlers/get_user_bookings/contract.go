package get_user_bookings

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

type BookingService interface {
	ListByUser(ctx context.Context, userID int64, page int) (*models.BookingListResponse, error)
}

type Logger interface {
	Error(format string, v ...interface{})
}
