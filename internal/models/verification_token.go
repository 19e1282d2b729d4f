package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// VerificationToken is a one-time email verification token. The random part
// is stored hashed; the plaintext is only ever embedded in the email link.
type VerificationToken struct {
	ID        string     `json:"id"`
	Token     string     `json:"-"` // Plaintext, only populated at creation
	TokenHash string     `json:"-"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}

// NewVerificationToken creates a 24-hour verification token for a user
func NewVerificationToken(userID string) (*VerificationToken, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	now := time.Now().UTC()
	return &VerificationToken{
		ID:        uuid.New().String(),
		Token:     token,
		TokenHash: HashAPIKey(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
		Used:      false,
	}, nil
}

// IsExpired checks if the token has expired
func (t *VerificationToken) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}

// IsValid checks if the token is still usable
func (t *VerificationToken) IsValid() bool {
	return !t.Used && !t.IsExpired()
}

// MarkUsed marks the token as consumed
func (t *VerificationToken) MarkUsed() {
	now := time.Now().UTC()
	t.Used = true
	t.UsedAt = &now
}

// Verification token errors
var (
	ErrTokenNotFound = UserError{"verification token not found"}
	ErrTokenExpired  = UserError{"verification token has expired"}
	ErrTokenUsed     = UserError{"verification token already used"}
)
