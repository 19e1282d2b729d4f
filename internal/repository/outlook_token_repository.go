package repository

import (
	"context"
	"database/sql"

	"github.com/planora/server/internal/models"
)

// OutlookTokenRepository implements OutlookTokenRepo for PostgreSQL/SQLite
type OutlookTokenRepository struct {
	db *sql.DB
}

// NewOutlookTokenRepository creates a new OutlookTokenRepository
func NewOutlookTokenRepository(db *sql.DB) *OutlookTokenRepository {
	return &OutlookTokenRepository{db: db}
}

func (r *OutlookTokenRepository) GetByUserID(ctx context.Context, userID string) (*models.OutlookToken, error) {
	query := `SELECT user_id, access_token, refresh_token, expires_at, updated_at
			  FROM outlook_tokens WHERE user_id = $1`

	var t models.OutlookToken
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&t.UserID, &t.AccessToken, &t.RefreshToken, &t.ExpiresAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert stores or replaces the user's token set
func (r *OutlookTokenRepository) Upsert(ctx context.Context, token *models.OutlookToken) error {
	query := `INSERT INTO outlook_tokens (user_id, access_token, refresh_token, expires_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id) DO UPDATE SET
			  access_token = excluded.access_token,
			  refresh_token = excluded.refresh_token,
			  expires_at = excluded.expires_at,
			  updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		token.UserID, token.AccessToken, token.RefreshToken, token.ExpiresAt, token.UpdatedAt)
	return err
}

func (r *OutlookTokenRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outlook_tokens WHERE user_id = $1`, userID)
	return err
}
