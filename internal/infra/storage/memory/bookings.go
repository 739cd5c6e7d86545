package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
)

// BookingRepository in-memory counterpart of booking.Repository
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	var err error
	r.store.access(ctx, func() {
		s := r.store
		for _, existing := range s.bookings {
			if existing.UUID == b.UUID {
				err = fmt.Errorf("%w: Create - duplicate uuid %s", booking.ErrExecQuery, b.UUID)
				return
			}
		}

		s.seq.booking++
		now := s.now()
		b.ID = s.seq.booking
		b.CreatedAt = now
		b.UpdatedAt = now

		stored := cloneBooking(b)
		stored.Detail = nil
		s.bookings[b.ID] = stored
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookingRepository) CreateDetail(ctx context.Context, detail *domain.BookingDetail) (*domain.BookingDetail, error) {
	var err error
	r.store.access(ctx, func() {
		s := r.store
		stored, ok := s.bookings[detail.BookingID]
		if !ok {
			err = fmt.Errorf("%w: CreateDetail - booking %d", booking.ErrExecQuery, detail.BookingID)
			return
		}
		if stored.Detail != nil {
			err = fmt.Errorf("%w: CreateDetail - booking %d already has a detail", booking.ErrExecQuery, detail.BookingID)
			return
		}

		s.seq.detail++
		now := s.now()
		detail.ID = s.seq.detail
		detail.CreatedAt = now
		detail.UpdatedAt = now

		copied := *detail
		stored.Detail = &copied
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *BookingRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var found *domain.Booking
	r.store.access(ctx, func() {
		for _, b := range r.store.bookings {
			if b.UUID == id {
				found = cloneBooking(b)
				return
			}
		}
	})
	if found == nil {
		return nil, booking.ErrBookingNotFound
	}
	return found, nil
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, courtID int64, date, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	day := date.Format(domain.DateFormat)
	result := make([]*domain.Booking, 0)

	r.store.access(ctx, func() {
		for _, b := range r.store.bookings {
			if b.CourtID != courtID || b.BookingDate.Format(domain.DateFormat) != day || !b.Status.IsActive() {
				continue
			}
			if excludeID != nil && b.ID == *excludeID {
				continue
			}
			if b.Overlaps(start, end) {
				result = append(result, cloneBooking(b))
			}
		}
	})

	sortByStart(result)
	return result, nil
}

func (r *BookingRepository) ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error) {
	day := date.Format(domain.DateFormat)
	result := make([]*domain.Booking, 0)

	r.store.access(ctx, func() {
		for _, b := range r.store.bookings {
			if b.CourtID == courtID && b.BookingDate.Format(domain.DateFormat) == day && b.Status.IsActive() {
				result = append(result, cloneBooking(b))
			}
		}
	})

	sortByStart(result)
	return result, nil
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)

	r.store.access(ctx, func() {
		for _, b := range r.store.bookings {
			if filter.UserID != nil && b.UserID != *filter.UserID {
				continue
			}
			if filter.CreatedByType != nil && b.CreatedByType != *filter.CreatedByType {
				continue
			}
			if filter.Status != nil && b.Status != *filter.Status {
				continue
			}
			result = append(result, cloneBooking(b))
		}
	})

	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	if filter.Limit == 0 {
		return result, nil
	}
	if filter.Offset >= uint64(len(result)) {
		return []*domain.Booking{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > uint64(len(result)) {
		end = uint64(len(result))
	}
	return result[filter.Offset:end], nil
}

func (r *BookingRepository) UpdateSchedule(ctx context.Context, b *domain.Booking) error {
	var err error
	r.store.access(ctx, func() {
		stored, ok := r.store.bookings[b.ID]
		if !ok || stored.Status != domain.StatusPending {
			err = booking.ErrStatusChanged
			return
		}
		stored.BookingDate = b.BookingDate
		stored.StartTime = b.StartTime
		stored.EndTime = b.EndTime
		stored.UpdatedAt = r.store.now()
	})
	return err
}

func (r *BookingRepository) UpdateDetail(ctx context.Context, detail *domain.BookingDetail) error {
	var err error
	r.store.access(ctx, func() {
		stored, ok := r.store.bookings[detail.BookingID]
		if !ok || stored.Detail == nil {
			err = booking.ErrBookingNotFound
			return
		}
		stored.Detail.Name = detail.Name
		stored.Detail.TotalPrice = detail.TotalPrice
		stored.Detail.TotalHour = detail.TotalHour
		stored.Detail.UpdatedAt = r.store.now()
	})
	return err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, reason *string) error {
	var err error
	r.store.access(ctx, func() {
		stored, ok := r.store.bookings[id]
		if !ok || stored.Status != from {
			err = booking.ErrStatusChanged
			return
		}
		stored.Status = to
		if reason != nil {
			copied := *reason
			stored.CancelReason = &copied
		}
		stored.UpdatedAt = r.store.now()
	})
	return err
}

// LockCourtDay transactions over the store are already serial, only the transaction itself is required
func (r *BookingRepository) LockCourtDay(ctx context.Context, _ int64, _ time.Time) error {
	if !r.store.inTx(ctx) {
		return booking.ErrNoTransaction
	}
	return nil
}

func sortByStart(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].StartTime.Before(bookings[j].StartTime)
	})
}
