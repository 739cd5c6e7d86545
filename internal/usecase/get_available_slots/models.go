package get_available_slots

import "github.com/m04kA/SMC-CourtBooking/internal/domain"

// Request модель запроса на получение доступных слотов
type Request struct {
	CourtSlug string // slug корта
	Date      string // Дата "YYYY-MM-DD"
}

// Response модель ответа со списком слотов дня
type Response struct {
	Availability *domain.Availability
	FromCache    bool // ответ взят из кэша
}
