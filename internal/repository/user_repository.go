package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/planora/server/internal/models"
)

const userColumns = `id, username, email, api_key_hash, password_hash, is_active, created_at`

// UserRepository implements UserRepo for PostgreSQL/SQLite
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.APIKeyHash, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername looks up a user by case-insensitive username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(username)))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (r *UserRepository) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE api_key_hash = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, apiKeyHash))
}

// GetByUsernames resolves a batch of usernames to users. Unknown usernames
// are silently skipped.
func (r *UserRepository) GetByUsernames(ctx context.Context, usernames []string) ([]*models.User, error) {
	var users []*models.User
	for _, username := range usernames {
		user, err := r.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *UserRepository) Add(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, email, api_key_hash, password_hash, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.APIKeyHash, user.PasswordHash,
		user.IsActive, user.CreatedAt)
	return err
}

// SetActive flips the account's active flag
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	return err
}

// UpdateAPIKeyHash persists a rotated API key hash
func (r *UserRepository) UpdateAPIKeyHash(ctx context.Context, id, apiKeyHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET api_key_hash = $1 WHERE id = $2`, apiKeyHash, id)
	return err
}

// Delete hard-deletes the user. Row removal cascades through collections,
// tasks, notes, grants and notifications via foreign keys, so readers never
// observe a half-deleted resource tree.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
