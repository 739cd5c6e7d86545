package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_available_slots"
)

const (
	HeaderCache = "X-Cache"

	msgInvalidQuery  = "параметры court и date (YYYY-MM-DD) обязательны"
	msgCourtNotFound = "корт не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/available?court={slug}&date={YYYY-MM-DD}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := QueryFromRequest(r)
	if err := handlers.Validate(query); err != nil {
		h.logger.Warn("GET /bookings/available - Invalid query: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{
			Error:   msgInvalidQuery,
			Details: handlers.ValidationDetails(err),
		})
		return
	}

	result, err := h.useCase.Execute(r.Context(), query.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCourtNotFound):
			h.logger.Warn("GET /bookings/available - Court not found: court=%s", query.Court)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case handlers.StatusFromError(err) == http.StatusBadRequest:
			h.logger.Warn("GET /bookings/available - Invalid request: %v", err)
			handlers.RespondDomainError(w, err, "")

		default:
			h.logger.Error("GET /bookings/available - Failed to get slots: court=%s, date=%s, error=%v",
				query.Court, query.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.FromCache {
		w.Header().Set(HeaderCache, "HIT")
	} else {
		w.Header().Set(HeaderCache, "MISS")
	}

	h.logger.Info("GET /bookings/available - Returned %d slots: court=%s, date=%s",
		len(result.Availability.Slots), query.Court, query.Date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
