package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/studio-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, s *AddOn) error
	GetByID(ctx context.Context, id string) (*AddOn, error)
	// GetByIDs returns the services found among ids, ordered by name.
	GetByIDs(ctx context.Context, ids []string) ([]AddOn, error)
	// List orders by name.
	List(ctx context.Context, filter Filter) ([]AddOn, int, error)
	Update(ctx context.Context, s *AddOn) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var addOnColumns = []string{"id", "name", "description", "price", "active", "created_at"}

func scanAddOn(row pgx.Row, extra ...any) (AddOn, error) {
	var s AddOn
	dest := []any{&s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt}
	err := row.Scan(append(dest, extra...)...)
	return s, err
}

func (r *pgxRepository) Create(ctx context.Context, s *AddOn) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.addon_services").
		Columns("name", "description", "price", "active").
		Values(s.Name, s.Description, s.Price, s.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("create service failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*AddOn, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(addOnColumns...).
		From("public.addon_services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	s, err := scanAddOn(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) GetByIDs(ctx context.Context, ids []string) ([]AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(addOnColumns...).
		From("public.addon_services").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get services query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get services failed: %w", err)
	}
	defer rows.Close()

	var services []AddOn
	for rows.Next() {
		s, err := scanAddOn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service failed: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services failed: %w", err)
	}
	return services, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]AddOn, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(addOnColumns, "count(*) OVER() as total_count")...).
		From("public.addon_services")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Keyword + "%"})
	}
	query = query.OrderBy("name ASC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var services []AddOn
	var total int
	for rows.Next() {
		s, err := scanAddOn(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service failed: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate services failed: %w", err)
	}
	return services, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *AddOn) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.addon_services").
		Set("name", s.Name).
		Set("description", s.Description).
		Set("price", s.Price).
		Set("active", s.Active).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.addon_services WHERE id = $1`
	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		// reservation_services restricts deleting linked services.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("delete service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
