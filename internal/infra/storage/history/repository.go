package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

// Repository журнал смены статусов бронирований (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория истории
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись о статусе бронирования
func (r *Repository) Append(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.BookingHistory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_histories").
		Columns("booking_id", "status").
		Values(bookingID, status).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	entry := domain.BookingHistory{BookingID: bookingID, Status: status}
	var createdAt sql.NullTime

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

// ListByBookingID возвращает историю бронирования в порядке записи
func (r *Repository) ListByBookingID(ctx context.Context, bookingID int64) ([]*domain.BookingHistory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "status", "created_at").
		From("booking_histories").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBookingID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.BookingHistory, 0)
	for rows.Next() {
		var entry domain.BookingHistory
		var createdAt sql.NullTime

		if err := rows.Scan(&entry.ID, &entry.BookingID, &entry.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByBookingID - scan row: %v", ErrScanRow, err)
		}
		entry.CreatedAt = createdAt.Time
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBookingID - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
