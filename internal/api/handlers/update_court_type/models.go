package update_court_type

import "github.com/shopspring/decimal"

// UpdateCourtTypeRequest HTTP request model
// Ставка принимается и числом, и строкой: {"rate": 650000} или {"rate": "650000.50"}
type UpdateCourtTypeRequest struct {
	Rate *decimal.Decimal `json:"rate" validate:"required"`
}
