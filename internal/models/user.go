package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

// User represents a registered account. Accounts start inactive and are
// activated by consuming an email verification token.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	APIKey       string    `json:"apiKey,omitempty"` // Only shown on creation/login
	APIKeyHash   string    `json:"-"`                // Never exposed
	PasswordHash string    `json:"-"`                // Never exposed
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserResponse is the safe response format (no API key)
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser creates an inactive user with a generated API key. Usernames are
// case-insensitive; they are normalized to lowercase here and compared
// lowercased everywhere else.
func NewUser(username, email string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return nil, ErrEmptyUsername
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}

	apiKey, err := GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	return &User{
		ID:         uuid.New().String(),
		Username:   username,
		Email:      email,
		APIKey:     apiKey,
		APIKeyHash: HashAPIKey(apiKey),
		IsActive:   false,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ToResponse converts User to UserResponse (safe for API)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// GenerateAPIKey creates a secure random API key
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashAPIKey creates a SHA256 hash of an API key
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}

// SetPassword hashes and sets the user's password using bcrypt (cost 12)
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks if the provided password matches the hash (constant-time via bcrypt)
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RotateAPIKey replaces the user's API key, returning the new plaintext key.
// The old key stops working once the new hash is persisted.
func (u *User) RotateAPIKey() (string, error) {
	apiKey, err := GenerateAPIKey()
	if err != nil {
		return "", err
	}
	u.APIKey = apiKey
	u.APIKeyHash = HashAPIKey(apiKey)
	return apiKey, nil
}

// User errors
var (
	ErrEmptyUsername    = UserError{"username cannot be empty"}
	ErrInvalidUsername  = UserError{"username must be 3-32 characters: lowercase letters, digits, '_', '.', '-'"}
	ErrEmptyEmail       = UserError{"email cannot be empty"}
	ErrUserNotFound     = UserError{"user not found"}
	ErrUsernameExists   = UserError{"username already registered"}
	ErrEmailExists      = UserError{"email already registered"}
	ErrInvalidAPIKey    = UserError{"invalid API key"}
	ErrPasswordTooShort = UserError{"password must be at least 8 characters"}
	ErrInvalidLogin     = UserError{"invalid username or password"}
	ErrAccountInactive  = UserError{"account is not activated"}
)

type UserError struct {
	Message string
}

func (e UserError) Error() string {
	return e.Message
}
