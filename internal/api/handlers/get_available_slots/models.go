package get_available_slots

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	getAvailableSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_available_slots"
)

// AvailabilityQuery query параметры запроса
type AvailabilityQuery struct {
	Court string `validate:"required"`
	Date  string `validate:"required,datetime=2006-01-02"`
}

// SlotResponse один слот дня
type SlotResponse struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date      string          `json:"date"`
	CourtID   int64           `json:"court_id"`
	CourtSlug string          `json:"court_slug"`
	Rate      decimal.Decimal `json:"rate"`
	FreeSlots int             `json:"free_slots"`
	Slots     []SlotResponse  `json:"slots"`
}

// QueryFromRequest читает court и date из query
func QueryFromRequest(r *http.Request) AvailabilityQuery {
	q := r.URL.Query()
	return AvailabilityQuery{
		Court: strings.TrimSpace(q.Get("court")),
		Date:  strings.TrimSpace(q.Get("date")),
	}
}

// ToUseCaseRequest конвертирует query в модель use case
func (q AvailabilityQuery) ToUseCaseRequest() *getAvailableSlots.Request {
	return &getAvailableSlots.Request{CourtSlug: q.Court, Date: q.Date}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	a := resp.Availability
	out := &AvailabilityResponse{
		Date:      a.Date,
		CourtID:   a.CourtID,
		CourtSlug: a.CourtSlug,
		Rate:      a.Rate,
		FreeSlots: a.FreeSlots(),
		Slots:     make([]SlotResponse, 0, len(a.Slots)),
	}
	for _, s := range a.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime:   s.StartTime.String(),
			EndTime:     s.EndTime.String(),
			IsAvailable: s.IsAvailable,
		})
	}
	return out
}
