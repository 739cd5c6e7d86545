package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

// bookingColumns колонки бронирования вместе с деталями (LEFT JOIN booking_details d)
var bookingColumns = []string{
	"b.id",
	"b.uuid",
	"b.court_id",
	"b.user_id",
	"b.created_by_type",
	"b.status",
	"b.booking_date",
	"b.start_time",
	"b.end_time",
	"b.cancel_reason",
	"b.created_at",
	"b.updated_at",
	"d.id",
	"d.name",
	"d.total_price",
	"d.total_hour",
	"d.created_at",
	"d.updated_at",
}

// Repository репозиторий для работы с бронированиями и их деталями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"uuid",
			"court_id",
			"user_id",
			"created_by_type",
			"status",
			"booking_date",
			"start_time",
			"end_time",
			"cancel_reason",
		).
		Values(
			booking.UUID.String(),
			booking.CourtID,
			booking.UserID,
			booking.CreatedByType,
			booking.Status,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.CancelReason,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CreateDetail создает детали бронирования (название, цена, длительность)
func (r *Repository) CreateDetail(ctx context.Context, detail *domain.BookingDetail) (*domain.BookingDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_details").
		Columns("booking_id", "name", "total_price", "total_hour").
		Values(detail.BookingID, detail.Name, detail.TotalPrice, detail.TotalHour).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateDetail - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&detail.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateDetail - execute insert: %w", ErrExecQuery, err)
	}

	detail.CreatedAt = createdAt.Time
	detail.UpdatedAt = updatedAt.Time

	return detail, nil
}

// GetByUUID получает бронирование с деталями по UUID
// Внутри транзакции строка бронирования блокируется (FOR UPDATE OF b)
func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().Where(squirrel.Eq{"b.uuid": id.String()})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUUID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUUID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// FindOverlapping возвращает активные бронирования корта на дату, пересекающие [start, end)
// excludeID исключает само изменяемое бронирование.
// Вызывается внутри транзакции после LockCourtDay.
func (r *Repository) FindOverlapping(ctx context.Context, courtID int64, date, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().
		Where(squirrel.Eq{"b.court_id": courtID}).
		Where(squirrel.Eq{"b.booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"b.status": activeStatuses()}).
		Where(squirrel.Lt{"b.start_time": end}).
		Where(squirrel.Gt{"b.end_time": start}).
		OrderBy("b.start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.id": *excludeID})
	}
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByCourtAndDate возвращает активные бронирования корта на дату, упорядоченные по времени начала
func (r *Repository) ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.court_id": courtID}).
		Where(squirrel.Eq{"b.booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"b.status": activeStatuses()}).
		OrderBy("b.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourtAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourtAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List возвращает страницу бронирований по фильтру, новые первыми (id DESC)
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().OrderBy("b.id DESC")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.user_id": *filter.UserID})
	}
	if filter.CreatedByType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.created_by_type": *filter.CreatedByType})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateSchedule переносит бронирование на новые дату и время
// Обновление проходит только пока бронирование в статусе PENDING
func (r *Repository) UpdateSchedule(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_date", booking.BookingDate.Format(domain.DateFormat)).
		Set("start_time", booking.StartTime).
		Set("end_time", booking.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, "UpdateSchedule", query, args)
}

// UpdateDetail обновляет название, цену и длительность бронирования
func (r *Repository) UpdateDetail(ctx context.Context, detail *domain.BookingDetail) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_details").
		Set("name", detail.Name).
		Set("total_price", detail.TotalPrice).
		Set("total_hour", detail.TotalHour).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": detail.BookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDetail - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDetail - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDetail - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Если статус уже не from, возвращает ErrStatusChanged. reason записывается в cancel_reason, если не nil.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if reason != nil {
		updateBuilder = updateBuilder.Set("cancel_reason", *reason)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, "UpdateStatus", query, args)
}

// LockCourtDay берёт транзакционную advisory-блокировку на пару (корт, дата)
// Блокировка снимается при коммите или откате транзакции.
// Ключ это 64-битный хеш пары: совпадение хешей лишь сериализует две разные пары.
func (r *Repository) LockCourtDay(ctx context.Context, courtID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column("pg_advisory_xact_lock(?)", courtDayLockKey(courtID, date)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockCourtDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockCourtDay - court %d on %s: %w", ErrExecQuery, courtID, date.Format(domain.DateFormat), err)
	}

	return nil
}

// execGuarded выполняет UPDATE с условием на статус.
// Ноль затронутых строк означает, что бронирование отсутствует или его статус уже изменился.
func (r *Repository) execGuarded(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *Repository) selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("booking_details d ON d.booking_id = b.id")
}

// courtDayLockKey ключ advisory-блокировки для корта на дату
func courtDayLockKey(courtID int64, date time.Time) int64 {
	return int64(xxhash.Sum64String(domain.CourtDayKey(courtID, date)))
}

func activeStatuses() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		cancelReason         sql.NullString
		createdAt, updatedAt sql.NullTime

		detailID                         sql.NullInt64
		detailName                       sql.NullString
		totalPrice                       decimal.NullDecimal
		totalHour                        sql.NullInt64
		detailCreatedAt, detailUpdatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.UUID,
		&booking.CourtID,
		&booking.UserID,
		&booking.CreatedByType,
		&booking.Status,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&cancelReason,
		&createdAt,
		&updatedAt,
		&detailID,
		&detailName,
		&totalPrice,
		&totalHour,
		&detailCreatedAt,
		&detailUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelReason.Valid {
		booking.CancelReason = &cancelReason.String
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if detailID.Valid {
		booking.Detail = &domain.BookingDetail{
			ID:         detailID.Int64,
			BookingID:  booking.ID,
			Name:       detailName.String,
			TotalPrice: totalPrice.Decimal,
			TotalHour:  int(totalHour.Int64),
			CreatedAt:  detailCreatedAt.Time,
			UpdatedAt:  detailUpdatedAt.Time,
		}
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
