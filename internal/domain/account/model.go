package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user. Providers additionally appear in the
// provider directory and can receive bookings.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Provider     bool      `json:"provider"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Provider bool   `json:"provider"`
}

// UpdateInput carries the fields accepted on a profile update. Nil
// pointers leave the current value untouched.
type UpdateInput struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	AvatarURL   *string `json:"avatar_url"`
	OldPassword *string `json:"old_password"`
	Password    *string `json:"password"`
}

// Provider directory entry exposed to clients choosing a provider.
type ProviderSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}
