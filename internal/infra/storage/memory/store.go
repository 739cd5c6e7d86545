// Package memory keeps courts, bookings and history in process memory.
// It implements the same contracts as the PostgreSQL repositories and is used
// for local runs (storage.driver = "memory") and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

type txKey struct{}

// Store holds all tables. Transactions are serialized by txMu, which makes every
// transaction behave as SERIALIZABLE; mu guards the maps themselves.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	courtTypes map[int64]*domain.CourtType
	courts     map[int64]*domain.Court
	bookings   map[int64]*domain.Booking
	history    []*domain.BookingHistory

	seq sequences
	now func() time.Time
}

type sequences struct {
	courtType, court, booking, detail, history int64
}

// New creates an empty store
func New() *Store {
	return &Store{
		courtTypes: make(map[int64]*domain.CourtType),
		courts:     make(map[int64]*domain.Court),
		bookings:   make(map[int64]*domain.Booking),
		now:        time.Now,
	}
}

// Bookings repository over the store
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// History repository over the store
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{store: s}
}

// Courts repository over the store
func (s *Store) Courts() *CourtRepository {
	return &CourtRepository{store: s}
}

// TxManager transaction manager over the store
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// AddCourtType seeds a court type
func (s *Store) AddCourtType(name string, rate decimal.Decimal) *domain.CourtType {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq.courtType++
	now := s.now()
	courtType := &domain.CourtType{ID: s.seq.courtType, Name: name, Rate: rate, CreatedAt: now, UpdatedAt: now}
	s.courtTypes[courtType.ID] = courtType

	copied := *courtType
	return &copied
}

// AddCourt seeds a court of an existing type
func (s *Store) AddCourt(slug, name string, courtTypeID int64) (*domain.Court, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courtTypes[courtTypeID]; !ok {
		return nil, fmt.Errorf("memory: court type %d does not exist", courtTypeID)
	}
	for _, c := range s.courts {
		if c.Slug == slug {
			return nil, fmt.Errorf("memory: court slug %q already exists", slug)
		}
	}

	s.seq.court++
	now := s.now()
	court := &domain.Court{ID: s.seq.court, Slug: slug, Name: name, CourtTypeID: courtTypeID, CreatedAt: now, UpdatedAt: now}
	s.courts[court.ID] = court

	return s.courtWithType(court), nil
}

// access runs fn under the data lock. Outside a transaction it also takes txMu,
// so single statements see only committed state.
func (s *Store) access(ctx context.Context, fn func()) {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

func (s *Store) courtWithType(c *domain.Court) *domain.Court {
	copied := *c
	if t, ok := s.courtTypes[c.CourtTypeID]; ok {
		courtType := *t
		copied.Type = &courtType
	}
	return &copied
}

type snapshot struct {
	courtTypes map[int64]*domain.CourtType
	courts     map[int64]*domain.Court
	bookings   map[int64]*domain.Booking
	history    []*domain.BookingHistory
	seq        sequences
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		courtTypes: make(map[int64]*domain.CourtType, len(s.courtTypes)),
		courts:     make(map[int64]*domain.Court, len(s.courts)),
		bookings:   make(map[int64]*domain.Booking, len(s.bookings)),
		history:    make([]*domain.BookingHistory, len(s.history)),
		seq:        s.seq,
	}
	for id, t := range s.courtTypes {
		copied := *t
		snap.courtTypes[id] = &copied
	}
	for id, c := range s.courts {
		copied := *c
		snap.courts[id] = &copied
	}
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	for i, h := range s.history {
		copied := *h
		snap.history[i] = &copied
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courtTypes = snap.courtTypes
	s.courts = snap.courts
	s.bookings = snap.bookings
	s.history = snap.history
	s.seq = snap.seq
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	copied := *b
	if b.CancelReason != nil {
		reason := *b.CancelReason
		copied.CancelReason = &reason
	}
	if b.Detail != nil {
		detail := *b.Detail
		copied.Detail = &detail
	}
	return &copied
}
