package update_booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса и разбирает uuid
func validateRequest(req *Request) (uuid.UUID, error) {
	id, err := uuid.Parse(req.UUID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed uuid %q", ErrInvalidInput, req.UUID)
	}

	if req.UserID <= 0 {
		return uuid.Nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Role != domain.RoleAdmin && req.Role != domain.RoleUser {
		return uuid.Nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	if req.Date == nil && req.StartTime == nil && req.EndTime == nil && req.Name == nil {
		return uuid.Nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.Name != nil && len(*req.Name) > domain.MaxLabelLength {
		return uuid.Nil, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxLabelLength)
	}

	return id, nil
}
