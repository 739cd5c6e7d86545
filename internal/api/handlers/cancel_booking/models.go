package cancel_booking

// CancelBookingRequest HTTP request model
// Тело опционально: без причины сохраняется причина по умолчанию
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
