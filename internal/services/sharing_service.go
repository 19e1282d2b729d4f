package services

import (
	"context"
	"fmt"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/repository"
)

// SharingService handles explicit per-user shares and link-share settings
type SharingService struct {
	collectionRepo repository.CollectionRepo
	grantRepo      repository.SharedGrantRepo
	userRepo       repository.UserRepo
	notifications  *NotificationService
	frontendURL    string
}

// NewSharingService creates a new SharingService
func NewSharingService(
	collectionRepo repository.CollectionRepo,
	grantRepo repository.SharedGrantRepo,
	userRepo repository.UserRepo,
	notifications *NotificationService,
	frontendURL string,
) *SharingService {
	return &SharingService{
		collectionRepo: collectionRepo,
		grantRepo:      grantRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		frontendURL:    frontendURL,
	}
}

// Share grants the listed users access to a collection. Owner-only; sharing
// is not transitive through edit grants. Re-sharing an existing grantee
// updates the permission in place. One notification per granted user,
// fire-and-forget: a failed insert never fails the share.
func (s *SharingService) Share(ctx context.Context, actor *models.User, req *models.ShareRequest) (*models.ShareResponse, error) {
	if !models.IsValidPermission(req.Permission) {
		return nil, models.ErrInvalidPermission
	}

	collection, err := s.requireOwned(ctx, req.PageID, actor.ID)
	if err != nil {
		return nil, err
	}

	grantees, err := s.userRepo.GetByUsernames(ctx, req.Usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}

	shareURL := s.ShareURL(collection)
	permission := models.Permission(req.Permission)

	var granted []string
	for _, user := range grantees {
		if user.ID == collection.OwnerID {
			continue
		}

		grant := models.NewSharedGrant(collection.ID, user.ID, permission)
		if err := s.grantRepo.Upsert(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to store grant: %w", err)
		}
		granted = append(granted, user.Username)

		message := fmt.Sprintf("%s has shared a collection with you.", actor.Username)
		if err := s.notifications.Notify(ctx, user.ID, actor.ID, message, &shareURL); err != nil {
			observability.WithContext(ctx).WithField("recipient", user.Username).
				Warnf("share notification failed: %v", err)
		}
	}

	return &models.ShareResponse{
		SharedWith:    granted,
		Permission:    req.Permission,
		SharedPageURL: shareURL,
	}, nil
}

// UnshareAll deletes every grant for the collection. Owner-only.
func (s *SharingService) UnshareAll(ctx context.Context, actorID, collectionID string) error {
	collection, err := s.requireOwned(ctx, collectionID, actorID)
	if err != nil {
		return err
	}

	if err := s.grantRepo.RemoveAll(ctx, collection.ID); err != nil {
		return fmt.Errorf("failed to remove grants: %w", err)
	}
	return nil
}

// GetSharedUsers returns grantee usernames of a collection. Owner-only.
func (s *SharingService) GetSharedUsers(ctx context.Context, actorID, collectionID string) ([]string, error) {
	collection, err := s.requireOwned(ctx, collectionID, actorID)
	if err != nil {
		return nil, err
	}

	grants, err := s.grantRepo.GetGranteesWithUsers(ctx, collection.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grants: %w", err)
	}

	usernames := make([]string, 0, len(grants))
	for _, g := range grants {
		usernames = append(usernames, g.User.Username)
	}
	return usernames, nil
}

// UpdateLinkSettings mutates the link-share flag and permission in place.
// Owner-only; existing grants are untouched.
func (s *SharingService) UpdateLinkSettings(ctx context.Context, actorID, collectionID string, req *models.LinkShareSettingsRequest) (*models.LinkShareSettingsResponse, error) {
	collection, err := s.requireOwned(ctx, collectionID, actorID)
	if err != nil {
		return nil, err
	}

	shareable := collection.IsLinkShareable
	permission := collection.SharePermission

	if req.IsLinkShareable != nil {
		shareable = *req.IsLinkShareable
	}
	if req.ShareablePermission != nil {
		if !models.IsValidPermission(*req.ShareablePermission) {
			return nil, models.ErrInvalidPermission
		}
		permission = models.Permission(*req.ShareablePermission)
	}

	collection.SetLinkSharing(shareable, permission)

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to update link settings: %w", err)
	}

	return s.linkSettingsResponse(collection), nil
}

// GetLinkSettings returns the collection's link-share settings. Owner-only.
func (s *SharingService) GetLinkSettings(ctx context.Context, actorID, collectionID string) (*models.LinkShareSettingsResponse, error) {
	collection, err := s.requireOwned(ctx, collectionID, actorID)
	if err != nil {
		return nil, err
	}
	return s.linkSettingsResponse(collection), nil
}

// AddToShared materializes a grant from a visited share link: given a token,
// the actor receives a grant at the collection's link permission, which makes
// the collection appear in their listings from now on. Idempotent; the owner
// calling it is a no-op success.
func (s *SharingService) AddToShared(ctx context.Context, actorID, token string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil || !collection.Active || !collection.IsLinkShareable {
		return nil, models.ErrCollectionNotFound
	}

	if collection.OwnerID == actorID {
		collection.IsOwner = true
		return collection, nil
	}

	grant := models.NewSharedGrant(collection.ID, actorID, collection.SharePermission)
	if err := s.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, fmt.Errorf("failed to store grant: %w", err)
	}

	return collection, nil
}

// ShareURL returns the canonical shareable URL for a collection: token-based
// when link-sharing is on, id-based otherwise.
func (s *SharingService) ShareURL(c *models.Collection) string {
	if c.IsLinkShareable {
		return fmt.Sprintf("%s/shared-page/%s/", s.frontendURL, c.ShareToken)
	}
	return fmt.Sprintf("%s/collections/%s/", s.frontendURL, c.ID)
}

func (s *SharingService) linkSettingsResponse(c *models.Collection) *models.LinkShareSettingsResponse {
	return &models.LinkShareSettingsResponse{
		IsLinkShareable:     c.IsLinkShareable,
		ShareablePermission: string(c.SharePermission),
		ShareToken:          c.ShareToken,
		ShareURL:            fmt.Sprintf("%s/shared-page/%s/", s.frontendURL, c.ShareToken),
	}
}

// requireOwned loads an active collection and enforces ownership, mirroring
// the collection service: readable non-owners get an explicit denial,
// everyone else not-found.
func (s *SharingService) requireOwned(ctx context.Context, collectionID, actorID string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if collection == nil || !collection.Active {
		return nil, models.ErrCollectionNotFound
	}
	if collection.OwnerID != actorID {
		grant, err := s.grantRepo.Get(ctx, collection.ID, actorID)
		if err != nil {
			return nil, err
		}
		if grant != nil || collection.IsLinkShareable {
			return nil, models.ErrCollectionAccessDenied
		}
		return nil, models.ErrCollectionNotFound
	}
	return collection, nil
}
