package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the PostgreSQL-backed account repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, a *Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account (id, name, email, password_hash, provider, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Provider, a.AvatarURL, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, provider, avatar_url, created_at, updated_at
		FROM account WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, provider, avatar_url, created_at, updated_at
		FROM account WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *PgRepository) Update(ctx context.Context, a *Account) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE account
		SET name = $2, email = $3, password_hash = $4, avatar_url = $5, updated_at = $6
		WHERE id = $1`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.AvatarURL, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) ListProviders(ctx context.Context, limit, offset int) ([]ProviderSummary, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM account WHERE provider = true`,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, avatar_url
		FROM account WHERE provider = true
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	providers := make([]ProviderSummary, 0)
	for rows.Next() {
		var p ProviderSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL); err != nil {
			return nil, 0, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, total, rows.Err()
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Provider, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}
