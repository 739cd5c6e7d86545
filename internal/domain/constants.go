package domain

// Default business configuration values
const (
	DefaultBusinessStartHour = 7
	DefaultBusinessEndHour   = 22
	DefaultSlotLengthHours   = 1
	DefaultTimezone          = "Asia/Bangkok"
	DefaultPageSize          = 10
)

// Business validation constants
const (
	MaxLabelLength        = 255
	MaxCancelReasonLength = 500
	MaxPageSize           = 100
)

// DefaultCancelReason is stored when a booking is canceled without a reason
const DefaultCancelReason = "canceled by admin"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
