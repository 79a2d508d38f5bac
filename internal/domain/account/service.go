package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrValidation wraps input validation failures.
var ErrValidation = errors.New("validation failed")

// ErrWrongPassword is returned when the current password check fails on
// a password change.
var ErrWrongPassword = errors.New("old password does not match")

// Service implements account registration and profile management.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "account_service").Logger(),
		now:    time.Now,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	if err := validateRegister(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	a := &Account{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     input.Provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", a.ID.String()).Bool("provider", a.Provider).Msg("account registered")
	return a, nil
}

// UpdateProfile applies a partial update to the authenticated account.
// Changing the password requires the current one; changing the email
// requires it to be unused.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateInput) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		a.Name = name
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		if email != a.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err == nil && existing.ID != a.ID {
				return nil, ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			a.Email = email
		}
	}

	if input.AvatarURL != nil {
		a.AvatarURL = input.AvatarURL
	}

	if input.Password != nil {
		if input.OldPassword == nil {
			return nil, fmt.Errorf("%w: old password is required to change password", ErrValidation)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(*input.OldPassword)); err != nil {
			return nil, ErrWrongPassword
		}
		if len(*input.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		a.PasswordHash = string(hash)
	}

	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", a.ID.String()).Msg("profile updated")
	return a, nil
}

// GetByID returns the account with the given ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProviders returns one page of the provider directory sorted by
// name.
func (s *Service) ListProviders(ctx context.Context, page, pageSize int) ([]ProviderSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.repo.ListProviders(ctx, pageSize, (page-1)*pageSize)
}

func validateRegister(input RegisterInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(input.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
