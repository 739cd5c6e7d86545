package update_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: update_booking: invalid input data", domain.ErrValidation)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: update_booking: booking not found", domain.ErrNotFound)

	// ErrNotEditable возвращается, когда бронирование уже не в статусе PENDING
	ErrNotEditable = fmt.Errorf("%w: update_booking: only pending bookings can be changed", domain.ErrConflict)

	// ErrForbidden возвращается, когда пользователь пытается изменить чужое бронирование
	ErrForbidden = fmt.Errorf("%w: update_booking: booking belongs to another user", domain.ErrForbidden)

	// ErrSlotNotAvailable возвращается, когда новый интервал пересекается с активным бронированием
	ErrSlotNotAvailable = fmt.Errorf("%w: update_booking: booking overlaps an existing booking", domain.ErrConflict)

	// ErrConcurrentModification возвращается, когда параллельная запись помешала транзакции
	ErrConcurrentModification = fmt.Errorf("%w: update_booking: concurrent modification, retry", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: update_booking", domain.ErrInternal)
)
