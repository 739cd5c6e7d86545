package booking

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

var selectColumns = []string{
	"id", "uuid", "court_id", "user_id", "created_by_type", "status",
	"booking_date", "start_time", "end_time", "cancel_reason", "created_at", "updated_at",
	"d_id", "d_name", "d_total_price", "d_total_hour", "d_created_at", "d_updated_at",
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock, db
}

func txContext(t *testing.T, mock sqlmock.Sqlmock, db *sql.DB) context.Context {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return dbmetrics.WithTx(context.Background(), tx)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newMock(t)

	id := uuid.New()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	start := date.Add(9 * time.Hour)
	end := date.Add(11 * time.Hour)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (uuid,court_id,user_id,created_by_type,status,booking_date,start_time,end_time,cancel_reason)")).
		WithArgs(id.String(), int64(1), int64(42), "USER", "PENDING", "2025-08-21", start, end, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	booking, err := repo.Create(context.Background(), &domain.Booking{
		UUID:          id,
		CourtID:       1,
		UserID:        42,
		CreatedByType: domain.RoleUser,
		Status:        domain.StatusPending,
		BookingDate:   date,
		StartTime:     start,
		EndTime:       end,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, now, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByUUID(t *testing.T) {
	id := uuid.New()
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	t.Run("with detail", func(t *testing.T) {
		repo, mock, _ := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b LEFT JOIN booking_details d ON d.booking_id = b.id WHERE b.uuid = $1")).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(selectColumns).AddRow(
				int64(7), id.String(), int64(1), int64(42), "USER", "PENDING",
				date, date.Add(9*time.Hour), date.Add(11*time.Hour), nil, now, now,
				int64(3), "Morning game", "1200000", int64(2), now, now,
			))

		booking, err := repo.GetByUUID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, booking.UUID)
		assert.Equal(t, domain.StatusPending, booking.Status)
		assert.Equal(t, domain.RoleUser, booking.CreatedByType)
		assert.Nil(t, booking.CancelReason)
		require.NotNil(t, booking.Detail)
		assert.Equal(t, 2, booking.Detail.TotalHour)
		assert.True(t, booking.Detail.TotalPrice.Equal(decimal.NewFromInt(1200000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without detail row", func(t *testing.T) {
		repo, mock, _ := newMock(t)

		mock.ExpectQuery("FROM bookings b").
			WillReturnRows(sqlmock.NewRows(selectColumns).AddRow(
				int64(7), id.String(), int64(1), int64(42), "ADMIN", "CANCELED",
				date, date.Add(9*time.Hour), date.Add(11*time.Hour), "canceled by admin", now, now,
				nil, nil, nil, nil, nil, nil,
			))

		booking, err := repo.GetByUUID(context.Background(), id)

		require.NoError(t, err)
		assert.Nil(t, booking.Detail)
		require.NotNil(t, booking.CancelReason)
		assert.Equal(t, "canceled by admin", *booking.CancelReason)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, _ := newMock(t)

		mock.ExpectQuery("FROM bookings b").WillReturnRows(sqlmock.NewRows(selectColumns))

		_, err := repo.GetByUUID(context.Background(), id)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("locks row inside transaction", func(t *testing.T) {
		repo, mock, db := newMock(t)
		ctx := txContext(t, mock, db)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE b.uuid = $1 FOR UPDATE OF b")).
			WillReturnRows(sqlmock.NewRows(selectColumns))

		_, err := repo.GetByUUID(ctx, id)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindOverlapping(t *testing.T) {
	repo, mock, db := newMock(t)
	ctx := txContext(t, mock, db)

	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	start := date.Add(10*time.Hour + 30*time.Minute)
	end := date.Add(11*time.Hour + 30*time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE b.court_id = $1 AND b.booking_date = $2 AND b.status IN ($3,$4) AND b.start_time < $5 AND b.end_time > $6 AND b.id <> $7 ORDER BY b.start_time ASC FOR UPDATE OF b")).
		WithArgs(int64(1), "2025-08-21", "PENDING", "CONFIRMED", end, start, int64(9)).
		WillReturnRows(sqlmock.NewRows(selectColumns).AddRow(
			int64(7), uuid.NewString(), int64(1), int64(42), "USER", "CONFIRMED",
			date, date.Add(9*time.Hour), date.Add(11*time.Hour), nil, date, date,
			nil, nil, nil, nil, nil, nil,
		))

	found, err := repo.FindOverlapping(ctx, 1, date, start, end, ptr.Ptr(int64(9)))

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(7), found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByCourtAndDate(t *testing.T) {
	repo, mock, _ := newMock(t)

	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE b.court_id = $1 AND b.booking_date = $2 AND b.status IN ($3,$4) ORDER BY b.start_time ASC")).
		WithArgs(int64(1), "2025-08-21", "PENDING", "CONFIRMED").
		WillReturnRows(sqlmock.NewRows(selectColumns).
			AddRow(
				int64(3), uuid.NewString(), int64(1), int64(42), "USER", "PENDING",
				date, date.Add(8*time.Hour), date.Add(9*time.Hour), nil, date, date,
				nil, nil, nil, nil, nil, nil,
			).
			AddRow(
				int64(5), uuid.NewString(), int64(1), int64(7), "ADMIN", "CONFIRMED",
				date, date.Add(12*time.Hour), date.Add(14*time.Hour), nil, date, date,
				nil, nil, nil, nil, nil, nil,
			))

	bookings, err := repo.ListByCourtAndDate(context.Background(), 1, date)

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, int64(3), bookings[0].ID)
	assert.Equal(t, domain.StatusConfirmed, bookings[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.user_id = $1 AND b.created_by_type = $2 ORDER BY b.id DESC LIMIT 10 OFFSET 20")).
		WithArgs(int64(42), "USER").
		WillReturnRows(sqlmock.NewRows(selectColumns))

	role := domain.RoleUser
	bookings, err := repo.List(context.Background(), domain.BookingsFilter{
		UserID:        ptr.Ptr(int64(42)),
		CreatedByType: &role,
		Limit:         10,
		Offset:        20,
	})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("guarded by current status", func(t *testing.T) {
		repo, mock, _ := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW(), cancel_reason = $2 WHERE id = $3 AND status = $4")).
			WithArgs("CANCELED", "double booked", int64(7), "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), 7, domain.StatusPending, domain.StatusCanceled, ptr.Ptr("double booked"))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status already changed", func(t *testing.T) {
		repo, mock, _ := newMock(t)

		mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 7, domain.StatusPending, domain.StatusConfirmed, nil)
		assert.ErrorIs(t, err, ErrStatusChanged)
	})

	t.Run("driver error stays reachable", func(t *testing.T) {
		repo, mock, _ := newMock(t)

		mock.ExpectExec("UPDATE bookings").WillReturnError(&pq.Error{Code: "40001"})

		err := repo.UpdateStatus(context.Background(), 7, domain.StatusPending, domain.StatusConfirmed, nil)
		require.ErrorIs(t, err, ErrExecQuery)

		var pqErr *pq.Error
		require.True(t, errors.As(err, &pqErr))
		assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
	})
}

func TestRepository_LockCourtDay(t *testing.T) {
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	t.Run("outside transaction", func(t *testing.T) {
		repo, _, _ := newMock(t)

		err := repo.LockCourtDay(context.Background(), 1, date)
		assert.ErrorIs(t, err, ErrNoTransaction)
	})

	t.Run("inside transaction", func(t *testing.T) {
		repo, mock, db := newMock(t)
		ctx := txContext(t, mock, db)

		mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
			WithArgs(courtDayLockKey(1, date)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.LockCourtDay(ctx, 1, date))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("court ids beyond 32 bits get their own key", func(t *testing.T) {
		wide := int64(1) + 1<<32

		assert.NotEqual(t, courtDayLockKey(1, date), courtDayLockKey(wide, date))
		assert.NotEqual(t, courtDayLockKey(1, date), courtDayLockKey(1, date.AddDate(0, 0, 1)))
		assert.Equal(t, courtDayLockKey(wide, date), courtDayLockKey(wide, date))
	})
}
