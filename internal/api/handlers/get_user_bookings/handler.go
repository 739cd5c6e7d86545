package get_user_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
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

// Handle GET /api/v1/bookings/user?page={n}
// Возвращает бронирования, созданные текущим пользователем с ролью USER
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}
	page := handlers.ParsePage(r)

	list, err := h.service.ListByUser(r.Context(), userID, page)
	if err != nil {
		h.logger.Error("GET /bookings/user - Failed to list bookings: user_id=%d, page=%d, error=%v", userID, page, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
