package get_admin_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/admin?page={n}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page := handlers.ParsePage(r)

	list, err := h.service.ListAll(r.Context(), page)
	if err != nil {
		h.logger.Error("GET /bookings/admin - Failed to list bookings: page=%d, error=%v", page, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
