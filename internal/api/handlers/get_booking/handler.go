package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
)

const (
	msgInvalidUUID = "некорректный UUID бронирования"
	msgNotFound    = "бронирование не найдено"
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

// Handle GET /api/v1/bookings/{uuid}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingUUID := mux.Vars(r)["uuid"]

	booking, err := h.service.GetByUUID(r.Context(), bookingUUID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/{uuid} - Invalid uuid: %s", bookingUUID)
			handlers.RespondBadRequest(w, msgInvalidUUID)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{uuid} - Booking not found: uuid=%s", bookingUUID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /bookings/{uuid} - Failed to get booking: uuid=%s, error=%v", bookingUUID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
