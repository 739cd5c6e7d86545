package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtSlug   string  `json:"court_slug" validate:"required"`
	BookingDate string  `json:"booking_date" validate:"required,datetime=2006-01-02"` // "2025-08-21"
	StartTime   string  `json:"start_time" validate:"required,datetime=15:04"`        // "09:00"
	EndTime     string  `json:"end_time" validate:"required,datetime=15:04"`          // "11:00"
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	models.BookingResponse
	CourtSlug string `json:"court_slug"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Пользователь и роль приходят из заголовков, а не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64, role domain.Role) *createBooking.Request {
	return &createBooking.Request{
		CourtSlug: r.CourtSlug,
		Date:      r.BookingDate,
		StartTime: types.TimeString(r.StartTime),
		EndTime:   types.TimeString(r.EndTime),
		Name:      r.Name,
		UserID:    userID,
		Role:      role,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response, loc *time.Location) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingResponse: *models.FromDomainBooking(resp.Booking, loc),
		CourtSlug:       resp.Court.Slug,
	}
}
