package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for a provider.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
