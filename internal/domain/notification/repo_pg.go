package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the PostgreSQL-backed notification repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, n *Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification (id, recipient_id, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.RecipientID, n.Content, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		SELECT id, recipient_id, content, read, created_at
		FROM notification WHERE id = $1`, id,
	).Scan(&n.ID, &n.RecipientID, &n.Content, &n.Read, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *PgRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, content, read, created_at
		FROM notification
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Content, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *PgRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notification SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
