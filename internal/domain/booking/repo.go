package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSlotTaken is returned by Repository.Create when another active
// appointment already holds the provider/date slot. The storage layer
// enforces this with a partial unique index so concurrent bookings of
// the same slot cannot both succeed.
var ErrSlotTaken = errors.New("slot already taken")

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, canceledAt time.Time) error
	ExistsActiveAt(ctx context.Context, providerID uuid.UUID, date time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserAppointment, int, error)
	ListByProviderBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]Appointment, error)
}

// AccountDirectory resolves booking participants. GetParticipant
// returns (nil, nil) when no account with the given ID exists.
type AccountDirectory interface {
	GetParticipant(ctx context.Context, id uuid.UUID) (*Participant, error)
}

// Notifier records an in-app notification for a provider.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, content string) error
}

// MailSender delivers cancellation email to providers.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
