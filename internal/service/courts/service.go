package courts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/slug"
)

// maxCourtNameLength ограничение длины имени корта
const maxCourtNameLength = 255

// Service сервис для работы с кортами и их ставками
type Service struct {
	courtRepo CourtRepository
	cache     AvailabilityCache
	logger    Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(courtRepo CourtRepository, cache AvailabilityCache, logger Logger) *Service {
	return &Service{
		courtRepo: courtRepo,
		cache:     cache,
		logger:    logger,
	}
}

// List возвращает все корты вместе с типом и ставкой
func (s *Service) List(ctx context.Context) (*models.CourtListResponse, error) {
	courts, err := s.courtRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d courts", len(courts))
	return models.FromDomainCourts(courts), nil
}

// ListTypes возвращает все типы кортов со ставками
func (s *Service) ListTypes(ctx context.Context) (*models.CourtTypeListResponse, error) {
	courtTypes, err := s.courtRepo.ListTypes(ctx)
	if err != nil {
		s.logger.Error("ListTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTypes - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListTypes: fetched %d court types", len(courtTypes))
	return models.FromDomainCourtTypes(courtTypes), nil
}

// UpdateCourt переименовывает корт и/или меняет его тип
// Новое имя задает и slug. Смена типа меняет ставку, смена slug меняет ответ доступности,
// поэтому в обоих случаях кэш доступности сбрасывается целиком.
func (s *Service) UpdateCourt(ctx context.Context, courtID int64, req models.UpdateCourtRequest) (*models.CourtResponse, error) {
	s.logger.Info("UpdateCourt: court id=%d", courtID)

	update, err := buildCourtUpdate(req)
	if err != nil {
		s.logger.Warn("UpdateCourt: court id=%d: %v", courtID, err)
		return nil, err
	}

	current, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		return nil, s.mapCourtError("UpdateCourt", courtID, err)
	}

	updated, err := s.courtRepo.Update(ctx, courtID, update)
	if err != nil {
		return nil, s.mapCourtError("UpdateCourt", courtID, err)
	}

	if updated.CourtTypeID != current.CourtTypeID || updated.Slug != current.Slug {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("UpdateCourt: failed to invalidate availability cache: %v", err)
		}
	}

	s.logger.Info("UpdateCourt: court id=%d is now slug=%s, type id=%d", courtID, updated.Slug, updated.CourtTypeID)
	return models.FromDomainCourt(updated), nil
}

// UpdateTypeRate меняет почасовую ставку типа корта
// Уже созданные бронирования сохраняют рассчитанную ранее стоимость
func (s *Service) UpdateTypeRate(ctx context.Context, typeID int64, rate decimal.Decimal) (*models.CourtTypeResponse, error) {
	s.logger.Info("UpdateTypeRate: court type id=%d, rate=%s", typeID, rate)

	if !rate.IsPositive() {
		s.logger.Warn("UpdateTypeRate: invalid rate=%s", rate)
		return nil, fmt.Errorf("%w: got %s", ErrInvalidRate, rate)
	}

	courtType, err := s.courtRepo.UpdateTypeRate(ctx, typeID, rate)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtTypeNotFound) {
			s.logger.Warn("UpdateTypeRate: court type id=%d not found", typeID)
			return nil, fmt.Errorf("%w: id=%d", ErrCourtTypeNotFound, typeID)
		}
		s.logger.Error("UpdateTypeRate: repository error for court type id=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: UpdateTypeRate - repository error: %v", ErrInternal, err)
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("UpdateTypeRate: failed to invalidate availability cache: %v", err)
	}

	s.logger.Info("UpdateTypeRate: court type id=%d now costs %s per hour", typeID, courtType.Rate)
	return models.FromDomainCourtType(courtType), nil
}

func (s *Service) mapCourtError(op string, courtID int64, err error) error {
	switch {
	case errors.Is(err, courtRepo.ErrCourtNotFound):
		s.logger.Warn("%s: court id=%d not found", op, courtID)
		return fmt.Errorf("%w: id=%d", ErrCourtNotFound, courtID)
	case errors.Is(err, courtRepo.ErrCourtTypeNotFound):
		s.logger.Warn("%s: court type for court id=%d not found", op, courtID)
		return fmt.Errorf("%w: court id=%d", ErrCourtTypeNotFound, courtID)
	case errors.Is(err, courtRepo.ErrSlugTaken):
		s.logger.Warn("%s: slug for court id=%d already taken", op, courtID)
		return fmt.Errorf("%w: court id=%d", ErrSlugTaken, courtID)
	default:
		s.logger.Error("%s: repository error for court id=%d: %v", op, courtID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func buildCourtUpdate(req models.UpdateCourtRequest) (domain.CourtUpdate, error) {
	var update domain.CourtUpdate

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > maxCourtNameLength {
			return update, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, maxCourtNameLength)
		}
		courtSlug := slug.Make(name)
		if courtSlug == "" {
			return update, fmt.Errorf("%w: name %q has no letters or digits", ErrInvalidInput, name)
		}
		update.Name = &name
		update.Slug = &courtSlug
	}

	if req.CourtTypeID != nil {
		if *req.CourtTypeID <= 0 {
			return update, fmt.Errorf("%w: court_type_id must be positive", ErrInvalidInput)
		}
		update.CourtTypeID = req.CourtTypeID
	}

	if update.IsEmpty() {
		return update, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return update, nil
}
