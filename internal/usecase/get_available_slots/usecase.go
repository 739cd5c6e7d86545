package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/cache"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
)

// UseCase use case для получения доступности корта на день
type UseCase struct {
	courtRepo   CourtRepository
	bookingRepo BookingRepository
	cache       AvailabilityCache
	hours       schedule.BusinessHours
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	cache AvailabilityCache,
	hours schedule.BusinessHours,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:   courtRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		hours:       hours,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Только чтение: блокировки не берутся, все бронирования дня читаются одним запросом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%s, date=%s", req.CourtSlug, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date, err := uc.hours.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 2. Получаем корт
	court, err := uc.courtRepo.GetBySlug(ctx, req.CourtSlug)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court slug=%s not found", req.CourtSlug)
			return nil, fmt.Errorf("%w: %s", ErrCourtNotFound, req.CourtSlug)
		}
		uc.logger.Error("GetAvailableSlots: failed to get court slug=%s: %v", req.CourtSlug, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Пробуем взять ответ из кэша. Ошибка кэша не мешает посчитать ответ заново
	cached, ok, err := uc.cache.Get(ctx, court.ID, date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
	}
	if ok {
		return &Response{Availability: cached, FromCache: true}, nil
	}

	// 4. Версию записи кэша читаем до бронирований: если запись изменит день
	// раньше, чем мы сохраним ответ, версия сменится и устаревший ответ не попадет в кэш
	version, versionErr := uc.cache.Version(ctx, court.ID, date)
	if versionErr != nil {
		uc.logger.Warn("GetAvailableSlots: cache version failed: %v", versionErr)
	}

	// 5. Генерируем слоты рабочего дня
	slots := uc.hours.GenerateSlots()

	// 6. Получаем все активные бронирования на эту дату
	bookings, err := uc.bookingRepo.ListByCourtAndDate(ctx, court.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Вычисляем доступность каждого слота
	availability := &domain.Availability{
		Date:      date.Format(domain.DateFormat),
		CourtID:   court.ID,
		CourtSlug: court.Slug,
		Rate:      court.Rate(),
		Slots:     markAvailability(uc.hours, date, slots, bookings),
	}

	if versionErr == nil {
		uc.storeInCache(ctx, court.ID, date, version, availability)
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for court=%s, date=%s",
		availability.FreeSlots(), len(availability.Slots), court.Slug, availability.Date)

	return &Response{Availability: availability}, nil
}

func (uc *UseCase) storeInCache(ctx context.Context, courtID int64, date time.Time, version string, availability *domain.Availability) {
	err := uc.cache.Set(ctx, courtID, date, version, availability)
	switch {
	case err == nil:
	case errors.Is(err, cache.ErrVersionChanged):
		uc.logger.Info("GetAvailableSlots: day changed while computing, answer not cached: %v", err)
	default:
		uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
	}
}
