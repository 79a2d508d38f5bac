package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ListLimit is the number of notifications returned per listing.
const ListLimit = 20

// ErrNotAProvider is returned when a non-provider requests the inbox.
var ErrNotAProvider = errors.New("only providers receive notifications")

// ErrForbidden is returned when a notification belongs to someone else.
var ErrForbidden = errors.New("notification belongs to another recipient")

// ProviderChecker reports whether an account is a provider.
type ProviderChecker interface {
	IsProvider(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service implements the provider notification inbox.
type Service struct {
	repo     Repository
	accounts ProviderChecker
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, accounts ProviderChecker, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		logger:   logger.With().Str("component", "notification_service").Logger(),
		now:      time.Now,
	}
}

// Append records a new unread notification for the recipient.
func (s *Service) Append(ctx context.Context, recipientID uuid.UUID, content string) (*Notification, error) {
	if content == "" {
		return nil, fmt.Errorf("notification content must not be empty")
	}

	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListForProvider returns the recipient's newest notifications, most
// recent first. Non-providers are rejected.
func (s *Service) ListForProvider(ctx context.Context, recipientID uuid.UUID) ([]Notification, error) {
	isProvider, err := s.accounts.IsProvider(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if !isProvider {
		return nil, ErrNotAProvider
	}
	return s.repo.ListByRecipient(ctx, recipientID, ListLimit)
}

// MarkRead marks one of the recipient's notifications as read.
func (s *Service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, ErrForbidden
	}

	if !n.Read {
		if err := s.repo.MarkRead(ctx, notificationID); err != nil {
			return nil, err
		}
		n.Read = true
	}
	return n, nil
}
