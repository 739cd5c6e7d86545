package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrValidation)

	// ErrCourtNotFound возвращается, когда корт с указанным slug не существует
	ErrCourtNotFound = fmt.Errorf("%w: create_booking: court not found", domain.ErrNotFound)

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotNotAvailable = fmt.Errorf("%w: create_booking: booking overlaps an existing booking", domain.ErrConflict)

	// ErrConcurrentModification возвращается, когда параллельная запись помешала транзакции
	ErrConcurrentModification = fmt.Errorf("%w: create_booking: concurrent modification, retry", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: create_booking", domain.ErrInternal)
)
