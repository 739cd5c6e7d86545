package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Request модели

// UpdateCourtRequest частичное обновление корта; slug строится из имени
type UpdateCourtRequest struct {
	Name        *string
	CourtTypeID *int64
}

// Response модели

// CourtTypeResponse тип корта и его почасовая ставка
type CourtTypeResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CourtResponse корт с типом
type CourtResponse struct {
	ID   int64              `json:"id"`
	Slug string             `json:"slug"`
	Name string             `json:"name"`
	Type *CourtTypeResponse `json:"type,omitempty"`
}

// CourtTypeListResponse список типов кортов
type CourtTypeListResponse struct {
	CourtTypes []CourtTypeResponse `json:"court_types"`
}

// CourtListResponse список кортов
type CourtListResponse struct {
	Courts []CourtResponse `json:"courts"`
}

// Методы конвертации

// FromDomainCourtType конвертирует domain модель в DTO
func FromDomainCourtType(t *domain.CourtType) *CourtTypeResponse {
	if t == nil {
		return nil
	}
	return &CourtTypeResponse{
		ID:        t.ID,
		Name:      t.Name,
		Rate:      t.Rate,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromDomainCourts конвертирует список кортов в DTO
func FromDomainCourts(courts []*domain.Court) *CourtListResponse {
	resp := &CourtListResponse{Courts: make([]CourtResponse, 0, len(courts))}
	for _, c := range courts {
		resp.Courts = append(resp.Courts, CourtResponse{
			ID:   c.ID,
			Slug: c.Slug,
			Name: c.Name,
			Type: FromDomainCourtType(c.Type),
		})
	}
	return resp
}

// FromDomainCourt конвертирует корт в DTO
func FromDomainCourt(c *domain.Court) *CourtResponse {
	if c == nil {
		return nil
	}
	return &CourtResponse{
		ID:   c.ID,
		Slug: c.Slug,
		Name: c.Name,
		Type: FromDomainCourtType(c.Type),
	}
}

// FromDomainCourtTypes конвертирует список типов кортов в DTO
func FromDomainCourtTypes(types []*domain.CourtType) *CourtTypeListResponse {
	resp := &CourtTypeListResponse{CourtTypes: make([]CourtTypeResponse, 0, len(types))}
	for _, t := range types {
		resp.CourtTypes = append(resp.CourtTypes, *FromDomainCourtType(t))
	}
	return resp
}
