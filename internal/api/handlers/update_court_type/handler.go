package update_court_type

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts"
)

const (
	msgInvalidTypeID = "некорректный ID типа корта"
	msgTypeNotFound  = "тип корта не найден"
	msgInvalidRate   = "ставка должна быть положительной"
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

// Handle PATCH /api/v1/court-types/{typeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeID, err := strconv.ParseInt(mux.Vars(r)["typeId"], 10, 64)
	if err != nil || typeID <= 0 {
		h.logger.Warn("PATCH /court-types/{id} - Invalid court type ID: %s", mux.Vars(r)["typeId"])
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	var req UpdateCourtTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /court-types/{id} - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, err)
		return
	}

	courtType, err := h.service.UpdateTypeRate(r.Context(), typeID, *req.Rate)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrCourtTypeNotFound):
			h.logger.Warn("PATCH /court-types/{id} - Court type not found: id=%d", typeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, courts.ErrInvalidRate):
			h.logger.Warn("PATCH /court-types/{id} - Invalid rate: id=%d, rate=%s", typeID, req.Rate)
			handlers.RespondBadRequest(w, msgInvalidRate)

		default:
			h.logger.Error("PATCH /court-types/{id} - Failed to update rate: id=%d, error=%v", typeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /court-types/{id} - Rate updated: id=%d, rate=%s", typeID, courtType.Rate)
	handlers.RespondJSON(w, http.StatusOK, courtType)
}
