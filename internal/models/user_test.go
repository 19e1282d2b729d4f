package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("normalizes username and email to lowercase", func(t *testing.T) {
		u, err := NewUser("  Alice.B  ", " Alice@Example.COM ")
		require.NoError(t, err)

		assert.Equal(t, "alice.b", u.Username)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.False(t, u.IsActive)
		assert.Len(t, u.APIKey, 64)
		assert.Equal(t, HashAPIKey(u.APIKey), u.APIKeyHash)
	})

	t.Run("rejects invalid usernames", func(t *testing.T) {
		cases := []struct {
			username string
			wantErr  error
		}{
			{"", ErrEmptyUsername},
			{"ab", ErrInvalidUsername},
			{"has spaces", ErrInvalidUsername},
			{"exclaim!", ErrInvalidUsername},
		}
		for _, tc := range cases {
			_, err := NewUser(tc.username, "a@b.com")
			assert.Equal(t, tc.wantErr, err, "username %q", tc.username)
		}
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewUser("alice", "   ")
		assert.Equal(t, ErrEmptyEmail, err)
	})
}

func TestUser_Password(t *testing.T) {
	u, err := NewUser("alice", "alice@example.com")
	require.NoError(t, err)

	t.Run("rejects short passwords", func(t *testing.T) {
		assert.Equal(t, ErrPasswordTooShort, u.SetPassword("short"))
	})

	t.Run("verifies the set password only", func(t *testing.T) {
		require.NoError(t, u.SetPassword("correct-horse"))
		assert.True(t, u.VerifyPassword("correct-horse"))
		assert.False(t, u.VerifyPassword("wrong-horse"))
	})
}

func TestUser_RotateAPIKey(t *testing.T) {
	u, err := NewUser("alice", "alice@example.com")
	require.NoError(t, err)
	oldHash := u.APIKeyHash

	key, err := u.RotateAPIKey()
	require.NoError(t, err)

	assert.Equal(t, key, u.APIKey)
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)
	assert.NotEqual(t, oldHash, u.APIKeyHash)
}

func TestVerificationToken(t *testing.T) {
	t.Run("new token is valid for 24 hours", func(t *testing.T) {
		tok, err := NewVerificationToken("user-1")
		require.NoError(t, err)

		assert.True(t, tok.IsValid())
		assert.False(t, tok.IsExpired())
		assert.Len(t, tok.Token, 64)
		assert.Equal(t, HashAPIKey(tok.Token), tok.TokenHash)
		assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), tok.ExpiresAt, time.Minute)
	})

	t.Run("used token is no longer valid", func(t *testing.T) {
		tok, err := NewVerificationToken("user-1")
		require.NoError(t, err)

		tok.MarkUsed()
		assert.False(t, tok.IsValid())
		require.NotNil(t, tok.UsedAt)
	})

	t.Run("expired token is no longer valid", func(t *testing.T) {
		tok, err := NewVerificationToken("user-1")
		require.NoError(t, err)

		tok.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		assert.True(t, tok.IsExpired())
		assert.False(t, tok.IsValid())
	})
}
