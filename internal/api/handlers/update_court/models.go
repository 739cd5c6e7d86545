package update_court

import "github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"

// UpdateCourtRequest HTTP request model
// slug не принимается: он строится из имени
type UpdateCourtRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	CourtTypeID *int64  `json:"court_type_id" validate:"omitempty,gt=0"`
}

// ToServiceRequest конвертирует HTTP request в request сервиса
func (r *UpdateCourtRequest) ToServiceRequest() models.UpdateCourtRequest {
	return models.UpdateCourtRequest{
		Name:        r.Name,
		CourtTypeID: r.CourtTypeID,
	}
}
