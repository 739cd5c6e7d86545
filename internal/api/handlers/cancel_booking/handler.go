package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
)

const (
	msgInvalidUUID  = "некорректный UUID бронирования"
	msgNotFound     = "бронирование не найдено"
	msgCannotCancel = "отменить можно только бронирование в статусе PENDING"
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

// Handle PATCH /api/v1/bookings/cancel/{uuid}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingUUID := mux.Vars(r)["uuid"]

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/cancel/{uuid} - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, err)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingUUID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/cancel/{uuid} - Booking not found: uuid=%s", bookingUUID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/cancel/{uuid} - Cannot cancel: uuid=%s: %v", bookingUUID, err)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/cancel/{uuid} - Invalid input: %v", err)
			handlers.RespondDomainError(w, err, msgInvalidUUID)

		default:
			h.logger.Error("PATCH /bookings/cancel/{uuid} - Failed to cancel booking: uuid=%s, error=%v", bookingUUID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/cancel/{uuid} - Booking canceled successfully: uuid=%s", bookingUUID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
