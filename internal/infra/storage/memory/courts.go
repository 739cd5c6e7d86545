package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
)

// CourtRepository in-memory counterpart of court.Repository
type CourtRepository struct {
	store *Store
}

func (r *CourtRepository) GetBySlug(ctx context.Context, slug string) (*domain.Court, error) {
	var found *domain.Court
	r.store.access(ctx, func() {
		for _, c := range r.store.courts {
			if c.Slug == slug {
				found = r.store.courtWithType(c)
				return
			}
		}
	})
	if found == nil {
		return nil, court.ErrCourtNotFound
	}
	return found, nil
}

func (r *CourtRepository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	var found *domain.Court
	r.store.access(ctx, func() {
		if c, ok := r.store.courts[id]; ok {
			found = r.store.courtWithType(c)
		}
	})
	if found == nil {
		return nil, court.ErrCourtNotFound
	}
	return found, nil
}

func (r *CourtRepository) List(ctx context.Context) ([]*domain.Court, error) {
	result := make([]*domain.Court, 0)
	r.store.access(ctx, func() {
		for _, c := range r.store.courts {
			result = append(result, r.store.courtWithType(c))
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *CourtRepository) UpdateTypeRate(ctx context.Context, typeID int64, rate decimal.Decimal) (*domain.CourtType, error) {
	var updated *domain.CourtType
	r.store.access(ctx, func() {
		t, ok := r.store.courtTypes[typeID]
		if !ok {
			return
		}
		t.Rate = rate
		t.UpdatedAt = r.store.now()
		copied := *t
		updated = &copied
	})
	if updated == nil {
		return nil, court.ErrCourtTypeNotFound
	}
	return updated, nil
}

func (r *CourtRepository) ListTypes(ctx context.Context) ([]*domain.CourtType, error) {
	result := make([]*domain.CourtType, 0)
	r.store.access(ctx, func() {
		for _, t := range r.store.courtTypes {
			copied := *t
			result = append(result, &copied)
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *CourtRepository) Update(ctx context.Context, id int64, update domain.CourtUpdate) (*domain.Court, error) {
	var (
		updated *domain.Court
		err     error
	)
	r.store.access(ctx, func() {
		c, ok := r.store.courts[id]
		if !ok {
			err = court.ErrCourtNotFound
			return
		}
		if update.CourtTypeID != nil {
			if _, ok := r.store.courtTypes[*update.CourtTypeID]; !ok {
				err = court.ErrCourtTypeNotFound
				return
			}
		}
		if update.Slug != nil {
			for _, other := range r.store.courts {
				if other.ID != id && other.Slug == *update.Slug {
					err = court.ErrSlugTaken
					return
				}
			}
		}

		if update.Name != nil {
			c.Name = *update.Name
		}
		if update.Slug != nil {
			c.Slug = *update.Slug
		}
		if update.CourtTypeID != nil {
			c.CourtTypeID = *update.CourtTypeID
		}
		c.UpdatedAt = r.store.now()
		updated = r.store.courtWithType(c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
