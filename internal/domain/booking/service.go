package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sideEffectTimeout = 5 * time.Second

// cancellationWindow is the minimum lead time required to cancel. An
// appointment is cancelable strictly before date minus this window.
const cancellationWindow = 2 * time.Hour

// Service implements the booking and cancellation policy.
type Service struct {
	repo     Repository
	accounts AccountDirectory
	notifier Notifier
	mailer   MailSender
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, accounts AccountDirectory, notifier Notifier, mailer MailSender, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		notifier: notifier,
		mailer:   mailer,
		logger:   logger.With().Str("component", "booking_service").Logger(),
		now:      time.Now,
	}
}

// Book creates an appointment for the authenticated user. Guards run in
// a fixed order: input shape, provider identity, self booking, past
// date, slot availability. The slot is the requested time truncated to
// the hour. On success a notification for the provider is recorded
// best-effort.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, input BookInput) (*Appointment, error) {
	providerID, err := uuid.Parse(input.ProviderID)
	if err != nil {
		return nil, newError(KindValidation, "provider_id must be a valid UUID")
	}
	requested, err := time.Parse(time.RFC3339, input.Date)
	if err != nil {
		return nil, newError(KindValidation, "date must be a valid RFC 3339 timestamp")
	}

	provider, err := s.accounts.GetParticipant(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider: %w", err)
	}
	if provider == nil || !provider.Provider {
		return nil, newError(KindNotAProvider, "appointments can only be booked with providers")
	}
	if providerID == userID {
		return nil, newError(KindSelfBooking, "appointments cannot be booked with yourself")
	}

	slot := requested.UTC().Truncate(time.Hour)
	now := s.now().UTC()
	if slot.Before(now) {
		return nil, newError(KindPastDate, "past dates cannot be booked")
	}

	taken, err := s.repo.ExistsActiveAt(ctx, providerID, slot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, newError(KindSlotUnavailable, "the requested slot is not available")
	}

	a := &Appointment{
		ID:         uuid.New(),
		UserID:     userID,
		ProviderID: providerID,
		Date:       slot,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if err == ErrSlotTaken {
			return nil, newError(KindSlotUnavailable, "the requested slot is not available")
		}
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("provider_id", providerID.String()).
		Time("date", slot).
		Msg("appointment booked")

	user, err := s.accounts.GetParticipant(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("skipping booking notification")
		return a, nil
	}

	content := fmt.Sprintf("New appointment from %s on %s", user.Name, formatSlot(slot))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, providerID, content); err != nil {
			s.logger.Error().Err(err).Str("provider_id", providerID.String()).Msg("failed to record booking notification")
		}
	}()

	return a, nil
}

// Cancel cancels an appointment owned by the authenticated user.
// Cancellation is allowed strictly before two hours ahead of the slot.
// On success the provider is emailed best-effort.
func (s *Service) Cancel(ctx context.Context, userID, appointmentID uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		if err == ErrNotFound {
			return nil, newError(KindNotFound, "appointment not found")
		}
		return nil, err
	}

	if a.UserID != userID {
		return nil, newError(KindForbidden, "appointments can only be canceled by their owner")
	}
	if a.Canceled() {
		return nil, newError(KindValidation, "appointment is already canceled")
	}

	now := s.now().UTC()
	if !now.Before(a.Date.Add(-cancellationWindow)) {
		return nil, newError(KindCancellationWindow, "appointments can only be canceled up to 2 hours in advance")
	}

	if err := s.repo.Cancel(ctx, appointmentID, now); err != nil {
		if err == ErrNotFound {
			return nil, newError(KindValidation, "appointment is already canceled")
		}
		return nil, err
	}
	a.CanceledAt = &now
	a.UpdatedAt = now

	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("provider_id", a.ProviderID.String()).
		Msg("appointment canceled")

	provider, err := s.accounts.GetParticipant(ctx, a.ProviderID)
	if err != nil || provider == nil {
		s.logger.Warn().Err(err).Str("provider_id", a.ProviderID.String()).Msg("skipping cancellation mail")
		return a, nil
	}
	user, err := s.accounts.GetParticipant(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("skipping cancellation mail")
		return a, nil
	}

	body := fmt.Sprintf("%s canceled the appointment on %s.", user.Name, formatSlot(a.Date))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, provider.Email, "Appointment canceled", body); err != nil {
			s.logger.Error().Err(err).Str("provider_id", provider.ID.String()).Msg("failed to send cancellation mail")
		}
	}()

	return a, nil
}

// ListForUser returns a page of the user's active appointments in
// ascending date order, 20 per page, with computed past and cancelable
// flags.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, page int) ([]UserAppointment, int, error) {
	if page < 1 {
		page = 1
	}
	const pageSize = 20
	items, total, err := s.repo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	now := s.now().UTC()
	for i := range items {
		items[i].Past = items[i].Date.Before(now)
		items[i].Cancelable = now.Before(items[i].Date.Add(-cancellationWindow))
	}
	return items, total, nil
}

// DaySchedule returns a provider's active appointments for one calendar
// day in ascending order. Non-providers are rejected.
func (s *Service) DaySchedule(ctx context.Context, providerID uuid.UUID, date string) ([]Appointment, error) {
	caller, err := s.accounts.GetParticipant(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider: %w", err)
	}
	if caller == nil || !caller.Provider {
		return nil, newError(KindNotAProvider, "only providers have a schedule")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, newError(KindValidation, "date must be in YYYY-MM-DD format")
	}

	from := day.UTC()
	to := from.Add(24*time.Hour - time.Nanosecond)
	return s.repo.ListByProviderBetween(ctx, providerID, from, to)
}

func formatSlot(t time.Time) string {
	return t.Format("January 2, 2006 at 15:04")
}
