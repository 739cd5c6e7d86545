package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
)

const (
	msgSlotNotAvailable = "выбранный интервал пересекается с существующим бронированием"
	msgConcurrent       = "интервал бронируется параллельно, повторите запрос"
	msgCourtNotFound    = "корт не найден"
)

type Handler struct {
	useCase CreateBookingUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	role, ok := middleware.GetRole(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, role))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: court=%s, user_id=%d: %v", req.CourtSlug, userID, err)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrConcurrentModification):
			h.logger.Warn("POST /bookings - Concurrent modification: court=%s, user_id=%d", req.CourtSlug, userID)
			handlers.RespondConflict(w, msgConcurrent)

		case errors.Is(err, createBooking.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court=%s", req.CourtSlug)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case handlers.StatusFromError(err) == http.StatusBadRequest:
			h.logger.Warn("POST /bookings - Invalid booking: court=%s, user_id=%d: %v", req.CourtSlug, userID, err)
			handlers.RespondDomainError(w, err, "")

		default:
			h.logger.Error("POST /bookings - Failed to create booking: court=%s, user_id=%d, error=%v",
				req.CourtSlug, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: uuid=%s, user_id=%d, court=%s",
		result.Booking.UUID, userID, req.CourtSlug)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.loc))
}
