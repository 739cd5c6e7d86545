package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/lock"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	courtRepo   CourtRepository
	bookingRepo BookingRepository
	historyRepo HistoryRepository
	txManager   TransactionManager
	locker      Locker
	cache       AvailabilityCache
	hours       schedule.BusinessHours
	idGenerator IDGenerator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	txManager TransactionManager,
	locker Locker,
	cache AvailabilityCache,
	hours schedule.BusinessHours,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:   courtRepo,
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		locker:      locker,
		cache:       cache,
		hours:       hours,
		idGenerator: &RandomIDGenerator{},
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка выполняются в сериализуемой транзакции
// под блокировкой пары (корт, дата)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, role=%s, court=%s, date=%s, time=%s-%s",
		req.UserID, req.Role, req.CourtSlug, req.Date, req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Разбираем дату
	date, err := uc.hours.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 3. Получаем корт вместе со ставкой
	court, err := uc.courtRepo.GetBySlug(ctx, req.CourtSlug)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court slug=%s not found", req.CourtSlug)
			return nil, fmt.Errorf("%w: %s", ErrCourtNotFound, req.CourtSlug)
		}
		uc.logger.Error("CreateBooking: failed to get court slug=%s: %v", req.CourtSlug, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3.1. Считаем длительность. Невыровненный интервал, который пересекает
	// занятое время, отклоняется как конфликт
	totalHour, err := uc.hours.ComputeDuration(req.StartTime, req.EndTime)
	if err != nil {
		if errors.Is(err, schedule.ErrTimeNotAligned) {
			if conflictErr := uc.checkConflict(ctx, court.ID, date, req); conflictErr != nil {
				uc.logger.Warn("CreateBooking: %v", conflictErr)
				return nil, conflictErr
			}
		}
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 4. Считаем стоимость
	totalPrice := schedule.ComputePrice(totalHour, court.Rate())
	start, end := uc.hours.Interval(date, req.StartTime, req.EndTime)

	booking := &domain.Booking{
		UUID:          uc.idGenerator.New(),
		CourtID:       court.ID,
		UserID:        req.UserID,
		CreatedByType: req.Role,
		Status:        req.Role.InitialStatus(),
		BookingDate:   date,
		StartTime:     start,
		EndTime:       end,
	}

	// 5. Под блокировкой (корт, дата) выполняем операции с БД в сериализуемой транзакции
	lockKey := domain.CourtDayKey(court.ID, date)
	err = uc.locker.WithLock(ctx, lockKey, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 5.1. Блокировка пары (корт, дата) на время транзакции
			if err := uc.bookingRepo.LockCourtDay(txCtx, court.ID, date); err != nil {
				return fmt.Errorf("%w: failed to lock court day: %w", ErrInternal, err)
			}

			// 5.2. Проверяем пересечения с активными бронированиями
			overlapping, err := uc.bookingRepo.FindOverlapping(txCtx, court.ID, date, start, end, nil)
			if err != nil {
				return fmt.Errorf("%w: failed to find overlapping bookings: %w", ErrInternal, err)
			}
			if len(overlapping) > 0 {
				return uc.overlapError(req, overlapping[0])
			}

			// 5.3. Создаем бронирование
			if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
				return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
			}

			// 5.4. Создаем детали с рассчитанной ценой
			detail, err := uc.bookingRepo.CreateDetail(txCtx, &domain.BookingDetail{
				BookingID:  booking.ID,
				Name:       ptr.Value(req.Name, ""),
				TotalPrice: totalPrice,
				TotalHour:  totalHour,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to create booking detail: %w", ErrInternal, err)
			}
			booking.Detail = detail

			// 5.5. Записываем начальные статусы в историю
			for _, status := range req.Role.InitialHistory() {
				if _, err := uc.historyRepo.Append(txCtx, booking.ID, status); err != nil {
					return fmt.Errorf("%w: failed to append history: %w", ErrInternal, err)
				}
			}

			return nil
		})
	})

	if err != nil {
		return nil, uc.mapError(err)
	}

	// 6. Сбрасываем кэш доступности
	if err := uc.cache.Invalidate(ctx, court.ID, date); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability cache for %s: %v", lockKey, err)
	}

	uc.logger.Info("CreateBooking: created booking uuid=%s status=%s total_hour=%d total_price=%s",
		booking.UUID, booking.Status, totalHour, totalPrice)

	return &Response{Booking: booking, Court: court}, nil
}

// checkConflict проверяет без блокировки, занят ли запрошенный интервал
// Возвращает ErrSlotNotAvailable или nil; ошибка репозитория только логируется,
// и вызывающий возвращает исходную ошибку валидации
func (uc *UseCase) checkConflict(ctx context.Context, courtID int64, date time.Time, req *Request) error {
	if req.StartTime.Validate() != nil || req.EndTime.Validate() != nil || !req.StartTime.IsBefore(req.EndTime) {
		return nil
	}

	start, end := uc.hours.Interval(date, req.StartTime, req.EndTime)
	overlapping, err := uc.bookingRepo.FindOverlapping(ctx, courtID, date, start, end, nil)
	if err != nil {
		uc.logger.Warn("CreateBooking: conflict check for court=%d %s %s-%s failed: %v",
			courtID, req.Date, req.StartTime, req.EndTime, err)
		return nil
	}
	if len(overlapping) == 0 {
		return nil
	}
	return uc.overlapError(req, overlapping[0])
}

func (uc *UseCase) overlapError(req *Request, other *domain.Booking) error {
	return fmt.Errorf("%w: %s %s-%s intersects %s-%s",
		ErrSlotNotAvailable, req.Date, req.StartTime, req.EndTime,
		uc.hours.LocalTime(other.StartTime), uc.hours.LocalTime(other.EndTime))
}

// mapError приводит ошибку транзакции или блокировки к ошибке usecase
func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerializationFailure), errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("CreateBooking: concurrent modification: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentModification, err)
	case errors.Is(err, ErrSlotNotAvailable):
		uc.logger.Warn("CreateBooking: %v", err)
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
