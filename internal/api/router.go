// Package api собирает HTTP маршруты сервиса
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/create_booking"
	getAdminBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_admin_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booking_history"
	getCourtTypesHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_court_types"
	getCourtsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_courts"
	getUserBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_user_bookings"
	updateBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/update_booking"
	updateCourtHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/update_court"
	updateCourtTypeHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/update_court_type"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
)

// Handlers все HTTP обработчики сервиса
type Handlers struct {
	CreateBooking     *createBookingHandler.Handler
	UpdateBooking     *updateBookingHandler.Handler
	GetAvailableSlots *getAvailableSlotsHandler.Handler
	GetBooking        *getBookingHandler.Handler
	GetBookingHistory *getBookingHistoryHandler.Handler
	CancelBooking     *cancelBookingHandler.Handler
	ConfirmBooking    *confirmBookingHandler.Handler
	GetAdminBookings  *getAdminBookingsHandler.Handler
	GetUserBookings   *getUserBookingsHandler.Handler
	GetCourts         *getCourtsHandler.Handler
	GetCourtTypes     *getCourtTypesHandler.Handler
	UpdateCourt       *updateCourtHandler.Handler
	UpdateCourtType   *updateCourtTypeHandler.Handler
}

// Options необязательные части роутера
type Options struct {
	Metrics     *metrics.Metrics // nil отключает метрики
	MetricsPath string
	Logger      middleware.Logger // nil отключает лог запросов
}

// NewRouter регистрирует маршруты /api/v1
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Logger != nil {
		r.Use(middleware.Logging(opts.Logger))
	}

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов корта на дату
	api.HandleFunc("/bookings/available", h.GetAvailableSlots.Handle).Methods(http.MethodGet)

	// Корты и ставки
	api.HandleFunc("/courts", h.GetCourts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/court-types", h.GetCourtTypes.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Только для администраторов ---
	// Регистрируются раньше /bookings/{uuid}, чтобы "admin" не считался uuid
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(domain.RoleAdmin))

	admin.HandleFunc("/bookings/admin", h.GetAdminBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/cancel/{uuid}", h.CancelBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/confirm/{uuid}", h.ConfirmBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/courts/{courtId}", h.UpdateCourt.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/court-types/{typeId}", h.UpdateCourtType.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", h.CreateBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/user", h.GetUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{uuid}/history", h.GetBookingHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{uuid}", h.GetBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{uuid}", h.UpdateBooking.Handle).Methods(http.MethodPatch)

	return r
}
