package update_booking

import (
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	updateBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/update_booking"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// UpdateBookingRequest HTTP request model, все поля опциональны
type UpdateBookingRequest struct {
	BookingDate *string `json:"booking_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingUUID string, userID int64, role domain.Role) *updateBooking.Request {
	return &updateBooking.Request{
		UUID:      bookingUUID,
		Date:      r.BookingDate,
		StartTime: toTimeString(r.StartTime),
		EndTime:   toTimeString(r.EndTime),
		Name:      r.Name,
		UserID:    userID,
		Role:      role,
	}
}

func toTimeString(s *string) *types.TimeString {
	if s == nil {
		return nil
	}
	t := types.TimeString(*s)
	return &t
}
