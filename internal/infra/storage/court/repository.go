package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

var courtColumns = []string{
	"c.id",
	"c.slug",
	"c.name",
	"c.court_type_id",
	"c.created_at",
	"c.updated_at",
	"t.id",
	"t.name",
	"t.rate",
	"t.created_at",
	"t.updated_at",
}

var courtTypeColumns = []string{"id", "name", "rate", "created_at", "updated_at"}

// SQLSTATE коды нарушений ограничений при обновлении корта
const (
	codeUniqueViolation     pq.ErrorCode = "23505"
	codeForeignKeyViolation pq.ErrorCode = "23503"
)

// Repository репозиторий кортов и их типов (ставок)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug получает корт вместе с типом по slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Court, error) {
	return r.getOne(ctx, "GetBySlug", squirrel.Eq{"c.slug": slug})
}

// GetByID получает корт вместе с типом по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"c.id": id})
}

// List возвращает все корты, упорядоченные по ID
func (r *Repository) List(ctx context.Context) ([]*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectCourts().OrderBy("c.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	courts := make([]*domain.Court, 0)
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		courts = append(courts, court)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return courts, nil
}

// UpdateTypeRate меняет почасовую ставку типа корта
// Уже созданные бронирования не пересчитываются: цена фиксируется в booking_details.
func (r *Repository) UpdateTypeRate(ctx context.Context, typeID int64, rate decimal.Decimal) (*domain.CourtType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("court_types").
		Set("rate", rate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": typeID}).
		Suffix("RETURNING id, name, rate, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTypeRate - build update query: %v", ErrBuildQuery, err)
	}

	var courtType domain.CourtType
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&courtType.ID,
		&courtType.Name,
		&courtType.Rate,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTypeRate - execute update: %w", ErrExecQuery, err)
	}

	courtType.CreatedAt = createdAt.Time
	courtType.UpdatedAt = updatedAt.Time

	return &courtType, nil
}

// ListTypes возвращает все типы кортов со ставками, упорядоченные по ID
func (r *Repository) ListTypes(ctx context.Context) ([]*domain.CourtType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtTypeColumns...).
		From("court_types").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTypes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	courtTypes := make([]*domain.CourtType, 0)
	for rows.Next() {
		var courtType domain.CourtType
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&courtType.ID, &courtType.Name, &courtType.Rate, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListTypes - scan row: %v", ErrScanRow, err)
		}
		courtType.CreatedAt = createdAt.Time
		courtType.UpdatedAt = updatedAt.Time
		courtTypes = append(courtTypes, &courtType)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTypes - rows error: %w", ErrScanRow, err)
	}

	return courtTypes, nil
}

// Update частично обновляет корт: имя, slug и тип
// Занятый slug возвращает ErrSlugTaken, несуществующий тип ErrCourtTypeNotFound.
func (r *Repository) Update(ctx context.Context, id int64, update domain.CourtUpdate) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("courts").
		Set("updated_at", squirrel.Expr("NOW()"))

	if update.Name != nil {
		updateBuilder = updateBuilder.Set("name", *update.Name)
	}
	if update.Slug != nil {
		updateBuilder = updateBuilder.Set("slug", *update.Slug)
	}
	if update.CourtTypeID != nil {
		updateBuilder = updateBuilder.Set("court_type_id", *update.CourtTypeID)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return nil, ErrSlugTaken
		case codeForeignKeyViolation:
			return nil, ErrCourtTypeNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return r.GetByID(ctx, updatedID)
}

// UpsertType создает тип корта или обновляет ставку существующего (по имени)
func (r *Repository) UpsertType(ctx context.Context, name string, rate decimal.Decimal) (*domain.CourtType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("court_types").
		Columns("name", "rate").
		Values(name, rate).
		Suffix("ON CONFLICT (name) DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW() " +
			"RETURNING id, name, rate, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertType - build insert query: %v", ErrBuildQuery, err)
	}

	var courtType domain.CourtType
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&courtType.ID,
		&courtType.Name,
		&courtType.Rate,
		&courtType.CreatedAt,
		&courtType.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertType - execute insert: %w", ErrExecQuery, err)
	}

	return &courtType, nil
}

// Upsert создает корт или переименовывает существующий (по slug)
func (r *Repository) Upsert(ctx context.Context, slug, name string, courtTypeID int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("courts").
		Columns("slug", "name", "court_type_id").
		Values(slug, name, courtTypeID).
		Suffix("ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, court_type_id = EXCLUDED.court_type_id, updated_at = NOW() " +
			"RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectCourts().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	court, err := scanCourt(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan court: %w", ErrScanRow, op, err)
	}

	return court, nil
}

func (r *Repository) selectCourts() squirrel.SelectBuilder {
	return psqlbuilder.Select(courtColumns...).
		From("courts c").
		Join("court_types t ON t.id = c.court_type_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourt(row rowScanner) (*domain.Court, error) {
	var court domain.Court
	var courtType domain.CourtType
	var createdAt, updatedAt, typeCreatedAt, typeUpdatedAt sql.NullTime

	err := row.Scan(
		&court.ID,
		&court.Slug,
		&court.Name,
		&court.CourtTypeID,
		&createdAt,
		&updatedAt,
		&courtType.ID,
		&courtType.Name,
		&courtType.Rate,
		&typeCreatedAt,
		&typeUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	court.CreatedAt = createdAt.Time
	court.UpdatedAt = updatedAt.Time
	courtType.CreatedAt = typeCreatedAt.Time
	courtType.UpdatedAt = typeUpdatedAt.Time
	court.Type = &courtType

	return &court, nil
}
