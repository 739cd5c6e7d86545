package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Формат даты и времени проверяется при разборе через schedule.BusinessHours
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.CourtSlug) == "" {
		return fmt.Errorf("%w: court_slug is required", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Role != domain.RoleAdmin && req.Role != domain.RoleUser {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: booking_date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrInvalidInput)
	}

	if req.Name != nil && len(*req.Name) > domain.MaxLabelLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxLabelLength)
	}

	return nil
}
