package update_court

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgCourtNotFound  = "корт не найден"
	msgTypeNotFound   = "тип корта не найден"
	msgSlugTaken      = "корт с таким именем уже существует"
	msgInvalidInput   = "некорректные данные корта"
)

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/courts/{courtId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(mux.Vars(r)["courtId"], 10, 64)
	if err != nil || courtID <= 0 {
		h.logger.Warn("PATCH /courts/{id} - Invalid court ID: %s", mux.Vars(r)["courtId"])
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	var req UpdateCourtRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /courts/{id} - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, err)
		return
	}

	court, err := h.service.UpdateCourt(r.Context(), courtID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrCourtNotFound):
			h.logger.Warn("PATCH /courts/{id} - Court not found: id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, courts.ErrCourtTypeNotFound):
			h.logger.Warn("PATCH /courts/{id} - Court type not found: id=%d", courtID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, courts.ErrSlugTaken):
			h.logger.Warn("PATCH /courts/{id} - Slug taken: id=%d", courtID)
			handlers.RespondConflict(w, msgSlugTaken)

		case errors.Is(err, courts.ErrInvalidInput):
			h.logger.Warn("PATCH /courts/{id} - Invalid input: id=%d, error=%v", courtID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /courts/{id} - Failed to update court: id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /courts/{id} - Court updated: id=%d, slug=%s", courtID, court.Slug)
	handlers.RespondJSON(w, http.StatusOK, court)
}
