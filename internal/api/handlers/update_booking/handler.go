package update_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	updateBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/update_booking"
)

const (
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "нельзя изменить чужое бронирование"
	msgNotEditable      = "изменять можно только бронирование в статусе PENDING"
	msgSlotNotAvailable = "новый интервал пересекается с существующим бронированием"
	msgConcurrent       = "интервал изменяется параллельно, повторите запрос"
)

type Handler struct {
	useCase UpdateBookingUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{uuid}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingUUID := mux.Vars(r)["uuid"]

	userID, _ := middleware.GetUserID(r.Context())
	role, ok := middleware.GetRole(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{uuid} - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingUUID, userID, role))
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{uuid} - Booking not found: uuid=%s", bookingUUID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{uuid} - Access denied: uuid=%s, user_id=%d", bookingUUID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrNotEditable):
			h.logger.Warn("PATCH /bookings/{uuid} - Not editable: uuid=%s", bookingUUID)
			handlers.RespondConflict(w, msgNotEditable)

		case errors.Is(err, updateBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{uuid} - Slot not available: uuid=%s: %v", bookingUUID, err)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, updateBooking.ErrConcurrentModification):
			h.logger.Warn("PATCH /bookings/{uuid} - Concurrent modification: uuid=%s", bookingUUID)
			handlers.RespondConflict(w, msgConcurrent)

		case handlers.StatusFromError(err) == http.StatusBadRequest:
			h.logger.Warn("PATCH /bookings/{uuid} - Invalid update: uuid=%s: %v", bookingUUID, err)
			handlers.RespondDomainError(w, err, "")

		default:
			h.logger.Error("PATCH /bookings/{uuid} - Failed to update booking: uuid=%s, error=%v", bookingUUID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{uuid} - Booking updated successfully: uuid=%s, user_id=%d", bookingUUID, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(result.Booking, h.loc))
}
