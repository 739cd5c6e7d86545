package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
)

const (
	msgInvalidUUID   = "некорректный UUID бронирования"
	msgNotFound      = "бронирование не найдено"
	msgCannotConfirm = "подтвердить можно только бронирование в статусе PENDING"
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

// Handle PATCH /api/v1/bookings/confirm/{uuid}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingUUID := mux.Vars(r)["uuid"]

	booking, err := h.service.Confirm(r.Context(), bookingUUID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidUUID)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/confirm/{uuid} - Booking not found: uuid=%s", bookingUUID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotConfirm):
			h.logger.Warn("PATCH /bookings/confirm/{uuid} - Cannot confirm: uuid=%s: %v", bookingUUID, err)
			handlers.RespondConflict(w, msgCannotConfirm)

		default:
			h.logger.Error("PATCH /bookings/confirm/{uuid} - Failed to confirm booking: uuid=%s, error=%v", bookingUUID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/confirm/{uuid} - Booking confirmed successfully: uuid=%s", bookingUUID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
