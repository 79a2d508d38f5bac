package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a booked slot between a user and a provider. The slot
// occupies exactly one hour starting at Date.
type Appointment struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ProviderID uuid.UUID  `json:"provider_id"`
	Date       time.Time  `json:"date"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Canceled reports whether the appointment has been canceled.
func (a *Appointment) Canceled() bool {
	return a.CanceledAt != nil
}

// Participant is the slice of an account the booking engine needs.
type Participant struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Provider bool
}

// ProviderProfile is the provider view embedded in a user's listing.
type ProviderProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// UserAppointment is one row of a user's appointment listing, with the
// provider profile and client-facing computed flags.
type UserAppointment struct {
	ID         uuid.UUID       `json:"id"`
	Date       time.Time       `json:"date"`
	Past       bool            `json:"past"`
	Cancelable bool            `json:"cancelable"`
	Provider   ProviderProfile `json:"provider"`
}

// BookInput carries a booking request.
type BookInput struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
}
