package create_booking

import (
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CourtSlug string           // slug корта
	Date      string           // Дата бронирования "YYYY-MM-DD"
	StartTime types.TimeString // Время начала, например "09:00"
	EndTime   types.TimeString // Время окончания, например "11:00"
	Name      *string          // Подпись бронирования (опционально)

	UserID int64       // ID автора запроса
	Role   domain.Role // Роль автора запроса
}

// Response созданное бронирование с деталями и кортом
type Response struct {
	Booking *domain.Booking
	Court   *domain.Court
}
