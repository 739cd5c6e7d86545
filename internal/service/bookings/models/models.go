package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Response модели

// BookingResponse ответ с данными бронирования
// Время начала и окончания отдаётся в часовом поясе площадки ("HH:mm")
type BookingResponse struct {
	UUID          string `json:"uuid"`
	CourtID       int64  `json:"court_id"`
	UserID        int64  `json:"user_id"`
	CreatedByType string `json:"created_by_type"`
	Status        string `json:"status"`
	BookingDate   string `json:"booking_date"` // "2025-08-21"
	StartTime     string `json:"start_time"`   // "09:00"
	EndTime       string `json:"end_time"`     // "11:00"

	CancelReason *string `json:"cancel_reason,omitempty"`

	Detail *BookingDetailResponse `json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingDetailResponse название и стоимость бронирования
type BookingDetailResponse struct {
	Name       string          `json:"name"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalHour  int             `json:"total_hour"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Bookings []BookingResponse `json:"bookings"`
}

// HistoryEntryResponse одна запись журнала статусов
type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse журнал статусов бронирования
type HistoryResponse struct {
	UUID    string                 `json:"uuid"`
	History []HistoryEntryResponse `json:"history"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	resp := &BookingResponse{
		UUID:          b.UUID.String(),
		CourtID:       b.CourtID,
		UserID:        b.UserID,
		CreatedByType: string(b.CreatedByType),
		Status:        string(b.Status),
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     types.NewTimeString(b.StartTime.In(loc)).String(),
		EndTime:       types.NewTimeString(b.EndTime.In(loc)).String(),
		CancelReason:  b.CancelReason,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if b.Detail != nil {
		resp.Detail = &BookingDetailResponse{
			Name:       b.Detail.Name,
			TotalPrice: b.Detail.TotalPrice,
			TotalHour:  b.Detail.TotalHour,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует страницу domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, page, pageSize int, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Page:     page,
		PageSize: pageSize,
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, loc); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainHistory конвертирует журнал статусов в DTO
func FromDomainHistory(bookingUUID string, entries []*domain.BookingHistory) *HistoryResponse {
	resp := &HistoryResponse{
		UUID:    bookingUUID,
		History: make([]HistoryEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.History = append(resp.History, HistoryEntryResponse{
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}
