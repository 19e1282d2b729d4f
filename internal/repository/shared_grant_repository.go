package repository

import (
	"context"
	"database/sql"

	"github.com/planora/server/internal/models"
)

// SharedGrantRepository implements SharedGrantRepo for PostgreSQL/SQLite
type SharedGrantRepository struct {
	db *sql.DB
}

// NewSharedGrantRepository creates a new SharedGrantRepository
func NewSharedGrantRepository(db *sql.DB) *SharedGrantRepository {
	return &SharedGrantRepository{db: db}
}

// Get returns the grant for a (collection, user) pair, or nil
func (r *SharedGrantRepository) Get(ctx context.Context, collectionID, userID string) (*models.SharedGrant, error) {
	query := `SELECT id, collection_id, user_id, permission, created_at
			  FROM shared_grants WHERE collection_id = $1 AND user_id = $2`

	var g models.SharedGrant
	err := r.db.QueryRowContext(ctx, query, collectionID, userID).Scan(
		&g.ID, &g.CollectionID, &g.UserID, &g.Permission, &g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *SharedGrantRepository) GetByCollectionID(ctx context.Context, collectionID string) ([]*models.SharedGrant, error) {
	query := `SELECT id, collection_id, user_id, permission, created_at
			  FROM shared_grants WHERE collection_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*models.SharedGrant
	for rows.Next() {
		var g models.SharedGrant
		if err := rows.Scan(&g.ID, &g.CollectionID, &g.UserID, &g.Permission, &g.CreatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, &g)
	}
	return grants, rows.Err()
}

// GetGranteesWithUsers returns grants joined with grantee details
func (r *SharedGrantRepository) GetGranteesWithUsers(ctx context.Context, collectionID string) ([]*models.SharedGrantWithUser, error) {
	query := `SELECT sg.id, sg.collection_id, sg.user_id, sg.permission, sg.created_at,
			  u.id, u.username, u.email
			  FROM shared_grants sg
			  INNER JOIN users u ON u.id = sg.user_id
			  WHERE sg.collection_id = $1 ORDER BY sg.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*models.SharedGrantWithUser
	for rows.Next() {
		var g models.SharedGrantWithUser
		var user models.User
		if err := rows.Scan(&g.ID, &g.CollectionID, &g.UserID, &g.Permission, &g.CreatedAt,
			&user.ID, &user.Username, &user.Email); err != nil {
			return nil, err
		}
		g.User = &user
		grants = append(grants, &g)
	}
	return grants, rows.Err()
}

// Upsert inserts a grant or updates the permission of an existing one. The
// unique (collection_id, user_id) constraint makes concurrent share calls for
// the same pair collapse into a single row.
func (r *SharedGrantRepository) Upsert(ctx context.Context, grant *models.SharedGrant) error {
	query := `INSERT INTO shared_grants (id, collection_id, user_id, permission, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (collection_id, user_id) DO UPDATE SET permission = excluded.permission`

	_, err := r.db.ExecContext(ctx, query,
		grant.ID, grant.CollectionID, grant.UserID, grant.Permission, grant.CreatedAt)
	return err
}

func (r *SharedGrantRepository) Remove(ctx context.Context, collectionID, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shared_grants WHERE collection_id = $1 AND user_id = $2`, collectionID, userID)
	return err
}

func (r *SharedGrantRepository) RemoveAll(ctx context.Context, collectionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shared_grants WHERE collection_id = $1`, collectionID)
	return err
}
