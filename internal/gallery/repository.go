package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/studio-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id string) (*Photo, error)
	// ListByResource orders by upload time, oldest first.
	ListByResource(ctx context.Context, resourceID string) ([]*Photo, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var photoColumns = []string{"id", "resource_id", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at"}

func scanPhoto(row pgx.Row) (*Photo, error) {
	var p Photo
	err := row.Scan(&p.ID, &p.ResourceID, &p.Filename, &p.StoragePath, &p.ThumbnailPath, &p.ContentType, &p.Size, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Photo) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.photos").
		Columns("id", "resource_id", "filename", "storage_path", "thumbnail_path", "content_type", "size").
		Values(p.ID, p.ResourceID, p.Filename, p.StoragePath, p.ThumbnailPath, p.ContentType, p.Size).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create photo query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("create photo failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Photo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(photoColumns...).
		From("public.photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get photo query failed: %w", err)
	}

	p, err := scanPhoto(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get photo failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string) ([]*Photo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(photoColumns...).
		From("public.photos").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list photos query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos failed: %w", err)
	}
	defer rows.Close()

	var photos []*Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo failed: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos failed: %w", err)
	}
	return photos, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete photo query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
