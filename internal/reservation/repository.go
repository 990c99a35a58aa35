package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

type Repository interface {
	CodeChecker

	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*Reservation, error)
	// GetByCodeForUpdate also locks the row until the current transaction ends.
	GetByCodeForUpdate(ctx context.Context, code string) (*Reservation, error)
	GetByToken(ctx context.Context, token string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	// Update persists status, verification and confirmation stamps, and internal notes.
	Update(ctx context.Context, r *Reservation) error
	LinkServices(ctx context.Context, reservationID string, serviceIDs []string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var reservationColumns = []string{
	"v.id", "v.code", "v.resource_id", "r.name", "v.date", "v.start_minute", "v.end_minute",
	"v.status", "v.client_name", "v.client_email", "v.client_phone", "v.client_document",
	"v.client_tax_id", "v.notes", "v.internal_notes", "v.verification_token",
	"v.email_verified_at", "v.confirmed_at", "v.created_at", "v.updated_at",
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var v Reservation
	var start, end int
	dest := []any{
		&v.ID, &v.Code, &v.ResourceID, &v.ResourceName, &v.Date, &start, &end,
		&v.Status, &v.ClientName, &v.ClientEmail, &v.ClientPhone, &v.ClientDocument,
		&v.ClientTaxID, &v.Notes, &v.InternalNotes, &v.VerificationToken,
		&v.EmailVerifiedAt, &v.ConfirmedAt, &v.CreatedAt, &v.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	v.Start = timeutil.Clock(start)
	v.End = timeutil.Clock(end)
	return &v, nil
}

func (r *pgxRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM public.reservations WHERE code = $1)`
	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check reservation code failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Create(ctx context.Context, v *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns(
			"code", "resource_id", "date", "start_minute", "end_minute", "status",
			"client_name", "client_email", "client_phone", "client_document", "client_tax_id",
			"notes", "internal_notes",
		).
		Values(
			v.Code, v.ResourceID, v.Date, int(v.Start), int(v.End), v.Status,
			v.ClientName, v.ClientEmail, v.ClientPhone, v.ClientDocument, v.ClientTaxID,
			v.Notes, v.InternalNotes,
		).
		Suffix("RETURNING id, verification_token, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&v.ID, &v.VerificationToken, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == "reservations_code_key" {
			return ErrCodeTaken
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) get(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Select(reservationColumns...).
		From("public.reservations v").
		Join("public.resources r ON v.resource_id = r.id").
		Where(where)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE OF v")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	v, err := scanReservation(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}

	services, err := r.loadServices(ctx, []string{v.ID})
	if err != nil {
		return nil, err
	}
	v.Services = services[v.ID]
	return v, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return r.get(ctx, squirrel.Eq{"v.id": id}, false)
}

func (r *pgxRepository) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	return r.get(ctx, squirrel.Eq{"v.code": code}, false)
}

func (r *pgxRepository) GetByCodeForUpdate(ctx context.Context, code string) (*Reservation, error) {
	return r.get(ctx, squirrel.Eq{"v.code": code}, true)
}

func (r *pgxRepository) GetByToken(ctx context.Context, token string) (*Reservation, error) {
	v, err := r.get(ctx, squirrel.Eq{"v.verification_token": token}, false)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrTokenNotFound
	}
	return v, err
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(reservationColumns, "count(*) OVER() as total_count")...).
		From("public.reservations v").
		Join("public.resources r ON v.resource_id = r.id")

	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"v.resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"v.status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"v.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"v.date": *filter.DateTo})
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"v.code": like},
			squirrel.ILike{"v.client_name": like},
			squirrel.ILike{"v.client_email": like},
			squirrel.ILike{"v.client_document": like},
		})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("v.date "+orderDir, "v.start_minute "+orderDir)

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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var result []*Reservation
	var ids []string
	var total int
	for rows.Next() {
		v, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservations failed: %w", err)
	}
	rows.Close()

	services, err := r.loadServices(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, v := range result {
		v.Services = services[v.ID]
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, v *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", v.Status).
		Set("email_verified_at", v.EmailVerifiedAt).
		Set("confirmed_at", v.ConfirmedAt).
		Set("internal_notes", v.InternalNotes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": v.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) LinkServices(ctx context.Context, reservationID string, serviceIDs []string) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Insert("public.reservation_services").Columns("reservation_id", "service_id")
	for _, id := range serviceIDs {
		builder = builder.Values(reservationID, id)
	}
	query, args, err := builder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build link services query failed: %w", err)
	}

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("link services failed: %w", err)
	}
	return nil
}

// loadServices returns the add-ons of each reservation, ordered by name.
func (r *pgxRepository) loadServices(ctx context.Context, reservationIDs []string) (map[string][]catalog.AddOn, error) {
	result := make(map[string][]catalog.AddOn, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return result, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"rs.reservation_id", "s.id", "s.name", "s.description", "s.price", "s.active", "s.created_at",
	).
		From("public.reservation_services rs").
		Join("public.addon_services s ON rs.service_id = s.id").
		Where(squirrel.Eq{"rs.reservation_id": reservationIDs}).
		OrderBy("s.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load services query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load services failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reservationID string
		var s catalog.AddOn
		if err := rows.Scan(&reservationID, &s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service failed: %w", err)
		}
		result[reservationID] = append(result[reservationID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services failed: %w", err)
	}
	return result, nil
}
