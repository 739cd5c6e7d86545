package courts

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrCourtTypeNotFound возвращается, когда тип корта не найден
	ErrCourtTypeNotFound = fmt.Errorf("%w: courts: court type not found", domain.ErrNotFound)

	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = fmt.Errorf("%w: courts: court not found", domain.ErrNotFound)

	// ErrSlugTaken возвращается, когда slug из нового имени уже занят
	ErrSlugTaken = fmt.Errorf("%w: courts: slug already taken", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных данных обновления корта
	ErrInvalidInput = fmt.Errorf("%w: courts: invalid input", domain.ErrValidation)

	// ErrInvalidRate возвращается, когда ставка не положительная
	ErrInvalidRate = fmt.Errorf("%w: courts: rate must be positive", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: courts", domain.ErrInternal)
)
