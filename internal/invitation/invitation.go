package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// CoManager is one entry on a list's management roster.
type CoManager struct {
	UserID  int64     `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	AddedBy int64     `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

// Invitation is a standing invite for an address that has no account yet.
// The token is only ever sent to that address, so it stays out of API
// responses.
type Invitation struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	InvitedBy int64     `json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
}

// InvitationResult reports how an invite was fulfilled: an existing
// account is granted directly, anyone else gets a standing invitation.
type InvitationResult struct {
	DirectlyAdded bool        `json:"directly_added"`
	Invitation    *Invitation `json:"invitation,omitempty"`
}

// Account is the minimal user projection the workflow needs.
type Account struct {
	ID    int64
	Email string
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
