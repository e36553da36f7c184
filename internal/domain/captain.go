package domain

import (
	"time"

	"github.com/google/uuid"
)

// Captain is a provisioned privileged account. Captains sign in with email
// and password; everyone else browses as an anonymous guest.
type Captain struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
