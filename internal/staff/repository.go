package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/studio-booking-backend/internal/db"
)

// Repository defines methods for accessing staff accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, m *Member) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context, filter Filter) ([]*Member, int, error)
	Update(ctx context.Context, m *Member) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const memberColumns = "id, email, password_hash, display_name, is_admin, is_active, created_at, last_login_at"

func scanMember(row pgx.Row, extra ...any) (*Member, error) {
	var m Member
	dest := append([]any{
		&m.ID, &m.Email, &m.PasswordHash, &m.DisplayName,
		&m.IsAdmin, &m.IsActive, &m.CreatedAt, &m.LastLoginAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *pgxRepository) getOne(ctx context.Context, column, value string) (*Member, error) {
	query, args, err := psql.Select(memberColumns).
		From("public.staff").
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get staff query failed: %w", err)
	}

	m, err := scanMember(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get staff by %s failed: %w", column, err)
	}
	return m, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	return r.getOne(ctx, "email", email)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Member, error) {
	return r.getOne(ctx, "id", id)
}

func (r *pgxRepository) Create(ctx context.Context, m *Member) error {
	query, args, err := psql.Insert("public.staff").
		Columns("email", "password_hash", "display_name", "is_admin", "is_active").
		Values(m.Email, m.PasswordHash, m.DisplayName, m.IsAdmin, m.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create staff query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create staff failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	query, args, err := psql.Update("public.staff").
		Set("last_login_at", t).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Member, int, error) {
	query := psql.Select(memberColumns, "count(*) OVER() AS total_count").
		From("public.staff")

	if filter.Email != "" {
		query = query.Where(squirrel.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list staff query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var (
		members []*Member
		total   int
	)
	for rows.Next() {
		m, err := scanMember(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan staff failed: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate staff failed: %w", err)
	}
	return members, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, m *Member) error {
	query, args, err := psql.Update("public.staff").
		Set("display_name", m.DisplayName).
		Set("is_admin", m.IsAdmin).
		Set("is_active", m.IsActive).
		Set("password_hash", m.PasswordHash).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update staff query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update staff failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
