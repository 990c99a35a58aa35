package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

type Repository interface {
	Create(ctx context.Context, w *Window) error
	GetByID(ctx context.Context, id string) (*Window, error)
	// List returns windows ordered by weekday and start.
	List(ctx context.Context, filter Filter) ([]Window, error)
	Update(ctx context.Context, w *Window) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var windowColumns = []string{
	"id", "resource_id", "weekday", "kind", "start_minute", "end_minute",
	"min_duration_minutes", "slot_minutes", "active", "created_at",
}

func scanWindow(row pgx.Row) (Window, error) {
	var w Window
	var start, end int
	err := row.Scan(
		&w.ID, &w.ResourceID, &w.Weekday, &w.Kind, &start, &end,
		&w.MinDurationMinutes, &w.SlotMinutes, &w.Active, &w.CreatedAt,
	)
	w.Start = timeutil.Clock(start)
	w.End = timeutil.Clock(end)
	return w, err
}

func (r *pgxRepository) Create(ctx context.Context, w *Window) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.schedule_windows").
		Columns("resource_id", "weekday", "kind", "start_minute", "end_minute", "min_duration_minutes", "slot_minutes", "active").
		Values(w.ResourceID, w.Weekday, w.Kind, int(w.Start), int(w.End), w.MinDurationMinutes, w.SlotMinutes, w.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create window query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("create window failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Window, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(windowColumns...).
		From("public.schedule_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get window query failed: %w", err)
	}

	w, err := scanWindow(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get window failed: %w", err)
	}
	return &w, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]Window, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(windowColumns...).From("public.schedule_windows")

	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}
	if filter.Weekday != nil {
		query = query.Where(squirrel.Eq{"weekday": *filter.Weekday})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}
	query = query.OrderBy("weekday ASC", "start_minute ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list windows query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list windows failed: %w", err)
	}
	defer rows.Close()

	var windows []Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan window failed: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate windows failed: %w", err)
	}
	return windows, nil
}

func (r *pgxRepository) Update(ctx context.Context, w *Window) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.schedule_windows").
		Set("weekday", w.Weekday).
		Set("kind", w.Kind).
		Set("start_minute", int(w.Start)).
		Set("end_minute", int(w.End)).
		Set("min_duration_minutes", w.MinDurationMinutes).
		Set("slot_minutes", w.SlotMinutes).
		Set("active", w.Active).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update window query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update window failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.schedule_windows WHERE id = $1`
	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete window failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
