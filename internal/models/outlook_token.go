package models

import "time"

// OutlookToken stores a user's Outlook calendar OAuth tokens. One row per
// user; reconnecting replaces the stored tokens.
type OutlookToken struct {
	UserID       string    `json:"userId"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsExpired reports whether the access token needs refreshing
func (t *OutlookToken) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}
