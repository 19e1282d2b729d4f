package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/repository"
)

// CollectionService handles collection business logic
type CollectionService struct {
	collectionRepo repository.CollectionRepo
	taskRepo       repository.TaskRepo
	resolver       *AccessResolver
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(
	collectionRepo repository.CollectionRepo,
	taskRepo repository.TaskRepo,
	resolver *AccessResolver,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		taskRepo:       taskRepo,
		resolver:       resolver,
	}
}

// CreateCollection creates a new collection owned by the actor
func (s *CollectionService) CreateCollection(ctx context.Context, actorID string, req *models.CreateCollectionRequest) (*models.Collection, error) {
	collection, err := models.NewCollection(actorID, req.Title)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		collection.Description = req.Description
	}

	if err := s.collectionRepo.Add(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	collection.IsOwner = true
	return collection, nil
}

// GetCollection retrieves a collection by ID via the direct-access predicate.
// Read denials surface as not-found so existence is never confirmed to an
// actor without access.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID, actorID string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	allowed, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.ErrCollectionNotFound
	}

	collection.IsOwner = collection.OwnerID == actorID
	return collection, nil
}

// GetCollectionWithTasks resolves direct access, then returns the collection
// together with all of its tasks. This is the filter-by-parent path: a
// link-shared collection reached by id is readable here even without a grant.
func (s *CollectionService) GetCollectionWithTasks(ctx context.Context, collectionID, actorID string) (*models.CollectionWithTasksResponse, error) {
	collection, err := s.GetCollection(ctx, collectionID, actorID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	return &models.CollectionWithTasksResponse{
		Collection: collection,
		Tasks:      tasks,
	}, nil
}

// GetCollectionByToken retrieves a collection via its share token. Only
// active, link-shareable collections are reachable this way; everything else
// is not-found.
func (s *CollectionService) GetCollectionByToken(ctx context.Context, token string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil || !collection.Active || !collection.IsLinkShareable {
		return nil, models.ErrCollectionNotFound
	}

	return collection, nil
}

// ListCollections returns the actor's listing set: owned plus explicitly
// granted, never merely link-shareable.
func (s *CollectionService) ListCollections(ctx context.Context, actorID string) ([]*models.Collection, error) {
	collections, err := s.collectionRepo.ListAccessible(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	for _, c := range collections {
		c.IsOwner = c.OwnerID == actorID
	}
	return collections, nil
}

// ListSharedCollections returns active collections shared with the actor
// through explicit grants
func (s *CollectionService) ListSharedCollections(ctx context.Context, actorID string) ([]*models.Collection, error) {
	collections, err := s.collectionRepo.ListSharedWith(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared collections: %w", err)
	}
	return collections, nil
}

// UpdateCollection updates title/description. Owner-only; a grantee with
// edit permission may write tasks, not the collection itself.
func (s *CollectionService) UpdateCollection(ctx context.Context, collectionID, actorID string, req *models.UpdateCollectionRequest) (*models.Collection, error) {
	collection, err := s.requireOwned(ctx, collectionID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, models.ErrCollectionTitleRequired
		}
		collection.Title = title
	}
	if req.Description != nil {
		collection.Description = req.Description
	}

	collection.UpdatedAt = time.Now().UTC()

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}

	collection.IsOwner = true
	return collection, nil
}

// DeleteCollection soft-deletes a collection. Owner-only and permanent: the
// row survives but no read path will ever return it again.
func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID, actorID string) error {
	collection, err := s.requireOwned(ctx, collectionID, actorID)
	if err != nil {
		return err
	}

	if err := s.collectionRepo.SoftDelete(ctx, collection.ID); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	observability.WithContext(ctx).WithFields(map[string]interface{}{
		"collection_id": collection.ID,
		"user_id":       actorID,
	}).Info("collection soft-deleted")

	return nil
}

// requireOwned loads an active collection and enforces ownership. Non-owners
// who could read it get an explicit denial; everyone else gets not-found.
func (s *CollectionService) requireOwned(ctx context.Context, collectionID, actorID string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil || !collection.Active {
		return nil, models.ErrCollectionNotFound
	}

	if collection.OwnerID != actorID {
		readable, err := s.resolver.CanRead(ctx, actorID, collection)
		if err != nil {
			return nil, err
		}
		if readable {
			return nil, models.ErrCollectionAccessDenied
		}
		return nil, models.ErrCollectionNotFound
	}

	return collection, nil
}
