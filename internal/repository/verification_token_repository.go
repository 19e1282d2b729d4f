package repository

import (
	"context"
	"database/sql"

	"github.com/planora/server/internal/models"
)

// VerificationTokenRepository implements VerificationTokenRepo for PostgreSQL/SQLite
type VerificationTokenRepository struct {
	db *sql.DB
}

// NewVerificationTokenRepository creates a new VerificationTokenRepository
func NewVerificationTokenRepository(db *sql.DB) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

func (r *VerificationTokenRepository) Add(ctx context.Context, token *models.VerificationToken) error {
	query := `INSERT INTO verification_tokens (id, token_hash, user_id, created_at, expires_at, used, used_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.TokenHash, token.UserID, token.CreatedAt, token.ExpiresAt,
		token.Used, token.UsedAt)
	return err
}

// GetByTokenHash looks up a token by the hash of its plaintext
func (r *VerificationTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.VerificationToken, error) {
	query := `SELECT id, token_hash, user_id, created_at, expires_at, used, used_at
			  FROM verification_tokens WHERE token_hash = $1`

	var t models.VerificationToken
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&t.ID, &t.TokenHash, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.Used, &usedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}
	return &t, nil
}

func (r *VerificationTokenRepository) MarkUsed(ctx context.Context, token *models.VerificationToken) error {
	query := `UPDATE verification_tokens SET used = TRUE, used_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, token.UsedAt, token.ID)
	return err
}

// DeleteExpired removes tokens past their expiry; called opportunistically
func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	return err
}
