package repository

import (
	"context"
	"database/sql"

	"github.com/planora/server/internal/models"
)

const collectionColumns = `c.id, c.owner_id, c.title, c.description, c.active,
	c.is_link_shareable, c.share_permission, c.share_token, c.created_at, c.updated_at`

// CollectionRepository implements CollectionRepo for PostgreSQL/SQLite
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func scanCollection(row interface{ Scan(...interface{}) error }) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Active,
		&c.IsLinkShareable, &c.SharePermission, &c.ShareToken, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID returns the collection regardless of its active flag; softness of
// the delete is the resolver's concern, not the row lookup's.
func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c WHERE c.id = $1`
	return scanCollection(r.db.QueryRowContext(ctx, query, id))
}

// GetByShareToken returns the collection holding the given token, active or not
func (r *CollectionRepository) GetByShareToken(ctx context.Context, token string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c WHERE c.share_token = $1`
	return scanCollection(r.db.QueryRowContext(ctx, query, token))
}

// ListAccessible returns the actor's listing set: active collections they own
// or hold an explicit grant on. Link-shareable collections without a grant do
// not appear here.
func (r *CollectionRepository) ListAccessible(ctx context.Context, actorID string) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c
			  WHERE ` + collectionListingPredicate + ` ORDER BY c.updated_at DESC`
	return r.queryCollections(ctx, query, actorID)
}

// ListSharedWith returns active collections the actor holds an explicit grant
// on (the shared-with-me subset of the listing set).
func (r *CollectionRepository) ListSharedWith(ctx context.Context, actorID string) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c
			  INNER JOIN shared_grants sg ON sg.collection_id = c.id
			  WHERE sg.user_id = $1 AND c.active = TRUE ORDER BY c.updated_at DESC`
	return r.queryCollections(ctx, query, actorID)
}

// ListOwned returns active collections owned by the user
func (r *CollectionRepository) ListOwned(ctx context.Context, ownerID string) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections c
			  WHERE c.owner_id = $1 AND c.active = TRUE ORDER BY c.updated_at DESC`
	return r.queryCollections(ctx, query, ownerID)
}

func (r *CollectionRepository) queryCollections(ctx context.Context, query string, args ...interface{}) ([]*models.Collection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *CollectionRepository) Add(ctx context.Context, collection *models.Collection) error {
	query := `INSERT INTO collections (id, owner_id, title, description, active,
			  is_link_shareable, share_permission, share_token, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		collection.ID, collection.OwnerID, collection.Title, collection.Description,
		collection.Active, collection.IsLinkShareable, collection.SharePermission,
		collection.ShareToken, collection.CreatedAt, collection.UpdatedAt,
	)
	return err
}

func (r *CollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	query := `UPDATE collections SET title = $1, description = $2,
			  is_link_shareable = $3, share_permission = $4, updated_at = $5
			  WHERE id = $6`

	_, err := r.db.ExecContext(ctx, query,
		collection.Title, collection.Description,
		collection.IsLinkShareable, collection.SharePermission, collection.UpdatedAt,
		collection.ID,
	)
	return err
}

// SoftDelete marks a collection inactive. The row stays; every read path
// excludes it from now on, including the owner's.
func (r *CollectionRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE collections SET active = FALSE WHERE id = $1`, id)
	return err
}
