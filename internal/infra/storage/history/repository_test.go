package history

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

func TestRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO booking_histories (booking_id,status) VALUES ($1,$2) RETURNING id, created_at")).
		WithArgs(int64(7), "CONFIRMED").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))

	entry, err := NewRepository(db).Append(context.Background(), 7, domain.StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, int64(12), entry.ID)
	assert.Equal(t, domain.StatusConfirmed, entry.Status)
	assert.Equal(t, now, entry.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByBookingID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_histories WHERE booking_id = $1 ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "status", "created_at"}).
			AddRow(int64(1), int64(7), "PENDING", now).
			AddRow(int64(2), int64(7), "CONFIRMED", now))

	entries, err := NewRepository(db).ListByBookingID(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.StatusPending, entries[0].Status)
	assert.Equal(t, domain.StatusConfirmed, entries[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
