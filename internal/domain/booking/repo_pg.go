package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the PostgreSQL-backed appointment repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, user_id, provider_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.UserID, a.ProviderID, a.Date, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, provider_id, date, canceled_at, created_at, updated_at
		FROM appointment WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.ProviderID, &a.Date, &a.CanceledAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

func (r *PgRepository) Cancel(ctx context.Context, id uuid.UUID, canceledAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET canceled_at = $2, updated_at = $2
		WHERE id = $1 AND canceled_at IS NULL`, id, canceledAt)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) ExistsActiveAt(ctx context.Context, providerID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE provider_id = $1 AND date = $2 AND canceled_at IS NULL
		)`, providerID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return exists, nil
}

func (r *PgRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserAppointment, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE user_id = $1 AND canceled_at IS NULL`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ap.id, ap.date, ac.id, ac.name, ac.avatar_url
		FROM appointment ap
		JOIN account ac ON ac.id = ap.provider_id
		WHERE ap.user_id = $1 AND ap.canceled_at IS NULL
		ORDER BY ap.date ASC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	items := make([]UserAppointment, 0)
	for rows.Next() {
		var item UserAppointment
		if err := rows.Scan(&item.ID, &item.Date, &item.Provider.ID, &item.Provider.Name, &item.Provider.AvatarURL); err != nil {
			return nil, 0, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *PgRepository) ListByProviderBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, provider_id, date, canceled_at, created_at, updated_at
		FROM appointment
		WHERE provider_id = $1 AND canceled_at IS NULL AND date >= $2 AND date <= $3
		ORDER BY date ASC`, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}
	defer rows.Close()

	items := make([]Appointment, 0)
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.Date, &a.CanceledAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
