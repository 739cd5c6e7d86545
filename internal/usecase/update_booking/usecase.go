package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

// UseCase use case для изменения даты и времени бронирования
type UseCase struct {
	courtRepo   CourtRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	locker      Locker
	cache       AvailabilityCache
	hours       schedule.BusinessHours
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker Locker,
	cache AvailabilityCache,
	hours schedule.BusinessHours,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:   courtRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		locker:      locker,
		cache:       cache,
		hours:       hours,
		logger:      logger,
	}
}

// Execute выполняет use case изменения бронирования
// Изменение статуса не происходит, поэтому запись в историю не добавляется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: user=%d, role=%s, uuid=%s", req.UserID, req.Role, req.UUID)

	// 1. Валидация входных данных
	id, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее бронирование
	current, err := uc.bookingRepo.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking uuid=%s not found", id)
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
		}
		uc.logger.Error("UpdateBooking: failed to get booking uuid=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Менять можно только PENDING бронирование, и только владельцу или администратору
	if !current.IsEditable() {
		uc.logger.Warn("UpdateBooking: booking uuid=%s has status %s", id, current.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrNotEditable, current.Status)
	}
	if req.Role != domain.RoleAdmin && !current.OwnedBy(req.UserID) {
		uc.logger.Warn("UpdateBooking: user=%d is not the owner of booking uuid=%s", req.UserID, id)
		return nil, ErrForbidden
	}

	// 4. Собираем новый интервал, незаполненные поля берём из текущего бронирования
	dateStr := ptr.Value(req.Date, current.BookingDate.Format(domain.DateFormat))
	startTime := ptr.Value(req.StartTime, uc.hours.LocalTime(current.StartTime))
	endTime := ptr.Value(req.EndTime, uc.hours.LocalTime(current.EndTime))

	date, err := uc.hours.ParseDate(dateStr)
	if err != nil {
		uc.logger.Warn("UpdateBooking: %v", err)
		return nil, err
	}

	totalHour, err := uc.hours.ComputeDuration(startTime, endTime)
	if err != nil {
		uc.logger.Warn("UpdateBooking: %v", err)
		return nil, err
	}

	// 5. Пересчитываем стоимость по текущей ставке корта
	court, err := uc.courtRepo.GetByID(ctx, current.CourtID)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get court id=%d: %v", current.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}
	totalPrice := schedule.ComputePrice(totalHour, court.Rate())
	start, end := uc.hours.Interval(date, startTime, endTime)

	var updated *domain.Booking

	// 6. Под блокировкой новой пары (корт, дата) переносим бронирование
	lockKey := domain.CourtDayKey(current.CourtID, date)
	err = uc.locker.WithLock(ctx, lockKey, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 6.1. Перечитываем бронирование с блокировкой строки
			booking, err := uc.bookingRepo.GetByUUID(txCtx, id)
			if err != nil {
				return fmt.Errorf("%w: failed to reload booking: %w", ErrInternal, err)
			}
			if !booking.IsEditable() {
				return fmt.Errorf("%w: status is %s", ErrNotEditable, booking.Status)
			}

			// 6.2. Блокировка новой пары (корт, дата)
			if err := uc.bookingRepo.LockCourtDay(txCtx, booking.CourtID, date); err != nil {
				return fmt.Errorf("%w: failed to lock court day: %w", ErrInternal, err)
			}

			// 6.3. Проверяем пересечения, не считая само бронирование
			overlapping, err := uc.bookingRepo.FindOverlapping(txCtx, booking.CourtID, date, start, end, ptr.Ptr(booking.ID))
			if err != nil {
				return fmt.Errorf("%w: failed to find overlapping bookings: %w", ErrInternal, err)
			}
			if len(overlapping) > 0 {
				return fmt.Errorf("%w: %s %s-%s intersects %s-%s",
					ErrSlotNotAvailable, dateStr, startTime, endTime,
					uc.hours.LocalTime(overlapping[0].StartTime), uc.hours.LocalTime(overlapping[0].EndTime))
			}

			// 6.4. Обновляем расписание и детали
			booking.BookingDate = date
			booking.StartTime = start
			booking.EndTime = end
			if err := uc.bookingRepo.UpdateSchedule(txCtx, booking); err != nil {
				return fmt.Errorf("%w: failed to update schedule: %w", ErrInternal, err)
			}

			detail := &domain.BookingDetail{BookingID: booking.ID}
			if booking.Detail != nil {
				detail = booking.Detail
			}
			detail.Name = ptr.Value(req.Name, detail.Name)
			detail.TotalPrice = totalPrice
			detail.TotalHour = totalHour
			if err := uc.bookingRepo.UpdateDetail(txCtx, detail); err != nil {
				return fmt.Errorf("%w: failed to update detail: %w", ErrInternal, err)
			}
			booking.Detail = detail

			updated = booking
			return nil
		})
	})

	if err != nil {
		return nil, uc.mapError(err)
	}

	// 7. Сбрасываем кэш доступности для старой и новой даты
	if err := uc.cache.Invalidate(ctx, current.CourtID, current.BookingDate, date); err != nil {
		uc.logger.Warn("UpdateBooking: failed to invalidate availability cache: %v", err)
	}

	uc.logger.Info("UpdateBooking: booking uuid=%s moved to %s %s-%s, total_hour=%d total_price=%s",
		id, dateStr, startTime, endTime, totalHour, totalPrice)

	return &Response{Booking: updated}, nil
}

// mapError приводит ошибку транзакции или блокировки к ошибке usecase
func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerializationFailure), errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("UpdateBooking: concurrent modification: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentModification, err)
	case errors.Is(err, bookingRepo.ErrStatusChanged):
		uc.logger.Warn("UpdateBooking: status changed concurrently: %v", err)
		return fmt.Errorf("%w: status changed concurrently", ErrNotEditable)
	case errors.Is(err, ErrSlotNotAvailable), errors.Is(err, ErrNotEditable):
		uc.logger.Warn("UpdateBooking: %v", err)
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("UpdateBooking: %v", err)
		return err
	default:
		uc.logger.Error("UpdateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
