package update_booking

import (
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Request модель запроса на изменение бронирования
// Незаполненные поля сохраняют текущие значения
type Request struct {
	UUID      string
	Date      *string           // Новая дата "YYYY-MM-DD"
	StartTime *types.TimeString // Новое время начала
	EndTime   *types.TimeString // Новое время окончания
	Name      *string           // Новая подпись

	UserID int64
	Role   domain.Role
}

// Response изменённое бронирование с деталями
type Response struct {
	Booking *domain.Booking
}
