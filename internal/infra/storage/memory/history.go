package memory

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// HistoryRepository in-memory counterpart of history.Repository
type HistoryRepository struct {
	store *Store
}

func (r *HistoryRepository) Append(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.BookingHistory, error) {
	var entry domain.BookingHistory
	r.store.access(ctx, func() {
		s := r.store
		s.seq.history++
		entry = domain.BookingHistory{
			ID:        s.seq.history,
			BookingID: bookingID,
			Status:    status,
			CreatedAt: s.now(),
		}
		stored := entry
		s.history = append(s.history, &stored)
	})
	return &entry, nil
}

func (r *HistoryRepository) ListByBookingID(ctx context.Context, bookingID int64) ([]*domain.BookingHistory, error) {
	result := make([]*domain.BookingHistory, 0)
	r.store.access(ctx, func() {
		for _, h := range r.store.history {
			if h.BookingID == bookingID {
				copied := *h
				result = append(result, &copied)
			}
		}
	})
	return result, nil
}
