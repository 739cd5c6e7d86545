package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

// Service сервис для работы с бронированиями: чтение, подтверждение и отмена
type Service struct {
	bookingRepo BookingRepository
	historyRepo HistoryRepository
	txManager   TransactionManager
	cache       AvailabilityCache
	hours       schedule.BusinessHours
	pageSize    int
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	hours schedule.BusinessHours,
	pageSize int,
	logger Logger,
) *Service {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Service{
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		cache:       cache,
		hours:       hours,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// GetByUUID получает бронирование вместе с деталями
func (s *Service) GetByUUID(ctx context.Context, rawUUID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByUUID: fetching booking uuid=%s", rawUUID)

	id, err := parseUUID(rawUUID)
	if err != nil {
		s.logger.Warn("GetByUUID: %v", err)
		return nil, err
	}

	booking, err := s.getBooking(ctx, "GetByUUID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking, s.hours.Location), nil
}

// Cancel отменяет бронирование в статусе PENDING
// Если причина не указана, сохраняется причина по умолчанию
func (s *Service) Cancel(ctx context.Context, rawUUID string, reason *string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking uuid=%s", rawUUID)

	id, err := parseUUID(rawUUID)
	if err != nil {
		s.logger.Warn("Cancel: %v", err)
		return nil, err
	}

	cancelReason := strings.TrimSpace(ptr.Value(reason, ""))
	if cancelReason == "" {
		cancelReason = domain.DefaultCancelReason
	}
	if len(cancelReason) > domain.MaxCancelReasonLength {
		s.logger.Warn("Cancel: reason for booking uuid=%s is too long", id)
		return nil, fmt.Errorf("%w: cancel reason must be at most %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	booking, err := s.transition(ctx, "Cancel", id, domain.StatusCanceled, &cancelReason,
		(*domain.Booking).CanBeCanceled, ErrCannotCancel)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking uuid=%s canceled, reason=%q", id, cancelReason)
	return models.FromDomainBooking(booking, s.hours.Location), nil
}

// Confirm подтверждает бронирование в статусе PENDING без причины отмены
func (s *Service) Confirm(ctx context.Context, rawUUID string) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking uuid=%s", rawUUID)

	id, err := parseUUID(rawUUID)
	if err != nil {
		s.logger.Warn("Confirm: %v", err)
		return nil, err
	}

	booking, err := s.transition(ctx, "Confirm", id, domain.StatusConfirmed, nil,
		(*domain.Booking).CanBeConfirmed, ErrCannotConfirm)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: booking uuid=%s confirmed", id)
	return models.FromDomainBooking(booking, s.hours.Location), nil
}

// ListAll страница всех бронирований, новые первыми
func (s *Service) ListAll(ctx context.Context, page int) (*models.BookingListResponse, error) {
	page = normalizePage(page)
	s.logger.Info("ListAll: fetching page=%d", page)

	bookings, err := s.bookingRepo.List(ctx, s.pageFilter(page))
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAll: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings, page, s.pageSize, s.hours.Location), nil
}

// ListByUser страница бронирований, созданных пользователем с ролью USER
func (s *Service) ListByUser(ctx context.Context, userID int64, page int) (*models.BookingListResponse, error) {
	page = normalizePage(page)
	s.logger.Info("ListByUser: fetching bookings for user=%d, page=%d", userID, page)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	filter := s.pageFilter(page)
	filter.UserID = ptr.Ptr(userID)
	filter.CreatedByType = ptr.Ptr(domain.RoleUser)

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByUser: fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings, page, s.pageSize, s.hours.Location), nil
}

// ListByCourtAndDate активные бронирования корта на дату, по возрастанию времени начала
func (s *Service) ListByCourtAndDate(ctx context.Context, courtID int64, date string) ([]models.BookingResponse, error) {
	day, err := s.hours.ParseDate(date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByCourtAndDate(ctx, courtID, day)
	if err != nil {
		s.logger.Error("ListByCourtAndDate: repository error for court=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: ListByCourtAndDate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings, 1, len(bookings), s.hours.Location).Bookings, nil
}

// GetHistory журнал статусов бронирования в порядке записи
func (s *Service) GetHistory(ctx context.Context, rawUUID string) (*models.HistoryResponse, error) {
	s.logger.Info("GetHistory: fetching history for booking uuid=%s", rawUUID)

	id, err := parseUUID(rawUUID)
	if err != nil {
		s.logger.Warn("GetHistory: %v", err)
		return nil, err
	}

	booking, err := s.getBooking(ctx, "GetHistory", id)
	if err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByBookingID(ctx, booking.ID)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking uuid=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHistory(id.String(), entries), nil
}

// Вспомогательные методы

// transition переводит бронирование в статус to и пишет строку в историю
// Чтение, условное обновление статуса и запись истории идут в одной транзакции
func (s *Service) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	to domain.BookingStatus,
	reason *string,
	allowed func(*domain.Booking) bool,
	errNotAllowed error,
) (*domain.Booking, error) {
	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, op, id)
		if err != nil {
			return err
		}

		if !allowed(booking) {
			s.logger.Warn("%s: booking uuid=%s has status %s", op, id, booking.Status)
			return fmt.Errorf("%w: status is %s", errNotAllowed, booking.Status)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status, to, reason); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				s.logger.Warn("%s: booking uuid=%s changed concurrently", op, id)
				return fmt.Errorf("%w: status changed concurrently", errNotAllowed)
			}
			s.logger.Error("%s: repository error for booking uuid=%s: %v", op, id, err)
			return fmt.Errorf("%w: %s - update status: %v", ErrInternal, op, err)
		}

		if _, err := s.historyRepo.Append(txCtx, booking.ID, to); err != nil {
			s.logger.Error("%s: failed to append history for booking uuid=%s: %v", op, id, err)
			return fmt.Errorf("%w: %s - append history: %v", ErrInternal, op, err)
		}

		booking.Status = to
		if reason != nil {
			booking.CancelReason = ptr.Ptr(*reason)
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, result.CourtID, result.BookingDate); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache: %v", op, err)
	}

	return result, nil
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking uuid=%s not found", op, id)
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
		}
		s.logger.Error("%s: repository error for booking uuid=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) pageFilter(page int) domain.BookingsFilter {
	return domain.BookingsFilter{
		Limit:  uint64(s.pageSize),
		Offset: uint64((page - 1) * s.pageSize),
	}
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed uuid %q", ErrInvalidInput, raw)
	}
	return id, nil
}

// normalizePage страницы нумеруются с 1, некорректный номер означает первую
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
