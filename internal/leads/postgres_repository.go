package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the content database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row. The insert is a single statement, so the
// record is either fully stored or not at all.
func (r *PostgresRepository) Create(ctx context.Context, lead *NewLead) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, phone, email, service, location, message, source_page, preferred_contact_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.Service,
		lead.Location,
		lead.Message,
		lead.SourcePage,
		lead.PreferredContactTime,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:                   id.String(),
		Name:                 lead.Name,
		Phone:                lead.Phone,
		Email:                lead.Email,
		Service:              lead.Service,
		Location:             lead.Location,
		Message:              lead.Message,
		SourcePage:           lead.SourcePage,
		PreferredContactTime: lead.PreferredContactTime,
		CreatedAt:            createdAt,
	}, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, name, phone, email, service, location, message, source_page, preferred_contact_time, created_at
		FROM leads
		WHERE id = $1
	`
	var lead Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Service,
		&lead.Location,
		&lead.Message,
		&lead.SourcePage,
		&lead.PreferredContactTime,
		&lead.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return &lead, nil
}

// List returns leads newest first for the admin view.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	query := `
		SELECT id, name, phone, email, service, location, message, source_page, preferred_contact_time, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Phone,
			&lead.Email,
			&lead.Service,
			&lead.Location,
			&lead.Message,
			&lead.SourcePage,
			&lead.PreferredContactTime,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate failed: %w", err)
	}
	return out, nil
}

var _ Repository = (*PostgresRepository)(nil)
