package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
)

func TestSharingService_Share(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	collection := env.createCollection(t, owner.ID, "Team Notes")

	t.Run("grants listed users and notifies them", func(t *testing.T) {
		response, err := env.sharing.Share(ctx, owner, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"alice", "bob"},
			Permission: "view",
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice", "bob"}, response.SharedWith)
		assert.Equal(t, "view", response.Permission)

		notifications, err := env.notifications.List(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, owner.ID, notifications[0].SenderID)
		assert.False(t, notifications[0].IsRead)

		bobNotifications, err := env.notifications.List(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, bobNotifications, 1)
		assert.Equal(t, owner.ID, bobNotifications[0].SenderID)
	})

	t.Run("re-sharing updates permission in place", func(t *testing.T) {
		_, err := env.sharing.Share(ctx, owner, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"alice"},
			Permission: "edit",
		})
		require.NoError(t, err)

		grants, err := env.grantRepo.GetByCollectionID(ctx, collection.ID)
		require.NoError(t, err)
		require.Len(t, grants, 2)

		grant, err := env.grantRepo.Get(ctx, collection.ID, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, grant)
		assert.Equal(t, models.PermissionEdit, grant.Permission)
	})

	t.Run("unknown usernames are skipped silently", func(t *testing.T) {
		response, err := env.sharing.Share(ctx, owner, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"bob", "ghost"},
			Permission: "view",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, response.SharedWith)
	})

	t.Run("owner in the username list is skipped", func(t *testing.T) {
		response, err := env.sharing.Share(ctx, owner, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"owner"},
			Permission: "view",
		})
		require.NoError(t, err)
		assert.Empty(t, response.SharedWith)
	})

	t.Run("invalid permission rejected", func(t *testing.T) {
		_, err := env.sharing.Share(ctx, owner, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"alice"},
			Permission: "admin",
		})
		assert.Equal(t, models.ErrInvalidPermission, err)
	})

	t.Run("edit grantee cannot re-share", func(t *testing.T) {
		_, err := env.sharing.Share(ctx, alice, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"bob"},
			Permission: "edit",
		})
		assert.Equal(t, models.ErrCollectionAccessDenied, err)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		stranger := env.createUser(t, "stranger")
		_, err := env.sharing.Share(ctx, stranger, &models.ShareRequest{
			PageID:     collection.ID,
			Usernames:  []string{"bob"},
			Permission: "view",
		})
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})
}

func TestSharingService_UnshareAll(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	collection := env.createCollection(t, owner.ID, "Shared")
	env.grant(t, collection.ID, alice.ID, models.PermissionView)
	env.grant(t, collection.ID, bob.ID, models.PermissionEdit)

	require.NoError(t, env.sharing.UnshareAll(ctx, owner.ID, collection.ID))

	grants, err := env.grantRepo.GetByCollectionID(ctx, collection.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)

	collections, err := env.collections.ListCollections(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, collections)
}

func TestSharingService_LinkSettings(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	collection := env.createCollection(t, owner.ID, "Linkable")

	t.Run("defaults off", func(t *testing.T) {
		settings, err := env.sharing.GetLinkSettings(ctx, owner.ID, collection.ID)
		require.NoError(t, err)
		assert.False(t, settings.IsLinkShareable)
		assert.NotEmpty(t, settings.ShareToken)
	})

	t.Run("enable with edit permission", func(t *testing.T) {
		enabled := true
		permission := "edit"
		settings, err := env.sharing.UpdateLinkSettings(ctx, owner.ID, collection.ID, &models.LinkShareSettingsRequest{
			IsLinkShareable:     &enabled,
			ShareablePermission: &permission,
		})
		require.NoError(t, err)
		assert.True(t, settings.IsLinkShareable)
		assert.Equal(t, "edit", settings.ShareablePermission)
		assert.Contains(t, settings.ShareURL, settings.ShareToken)
	})

	t.Run("invalid permission rejected", func(t *testing.T) {
		permission := "owner"
		_, err := env.sharing.UpdateLinkSettings(ctx, owner.ID, collection.ID, &models.LinkShareSettingsRequest{
			ShareablePermission: &permission,
		})
		assert.Equal(t, models.ErrInvalidPermission, err)
	})

	t.Run("existing grants untouched by link toggle", func(t *testing.T) {
		alice := env.createUser(t, "alice")
		env.grant(t, collection.ID, alice.ID, models.PermissionView)

		disabled := false
		_, err := env.sharing.UpdateLinkSettings(ctx, owner.ID, collection.ID, &models.LinkShareSettingsRequest{
			IsLinkShareable: &disabled,
		})
		require.NoError(t, err)

		grant, err := env.grantRepo.Get(ctx, collection.ID, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, grant)
		assert.Equal(t, models.PermissionView, grant.Permission)
	})
}

func TestSharingService_AddToShared(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	visitor := env.createUser(t, "visitor")

	collection := env.createCollection(t, owner.ID, "Open Journal")
	env.enableLinkSharing(t, collection, models.PermissionView)

	t.Run("materializes a grant at the link permission", func(t *testing.T) {
		got, err := env.sharing.AddToShared(ctx, visitor.ID, collection.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, collection.ID, got.ID)

		grant, err := env.grantRepo.Get(ctx, collection.ID, visitor.ID)
		require.NoError(t, err)
		require.NotNil(t, grant)
		assert.Equal(t, models.PermissionView, grant.Permission)

		// Now the collection shows up in the visitor's listing.
		collections, err := env.collections.ListCollections(ctx, visitor.ID)
		require.NoError(t, err)
		require.Len(t, collections, 1)
	})

	t.Run("idempotent", func(t *testing.T) {
		_, err := env.sharing.AddToShared(ctx, visitor.ID, collection.ShareToken)
		require.NoError(t, err)

		grants, err := env.grantRepo.GetByCollectionID(ctx, collection.ID)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("owner is a no-op success", func(t *testing.T) {
		got, err := env.sharing.AddToShared(ctx, owner.ID, collection.ShareToken)
		require.NoError(t, err)
		assert.True(t, got.IsOwner)

		grants, err := env.grantRepo.GetByCollectionID(ctx, collection.ID)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("fails once link sharing is off", func(t *testing.T) {
		collection.SetLinkSharing(false, models.PermissionView)
		require.NoError(t, env.collectionRepo.Update(ctx, collection))

		stranger := env.createUser(t, "stranger")
		_, err := env.sharing.AddToShared(ctx, stranger.ID, collection.ShareToken)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})
}

func TestSharingService_GetSharedUsers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")

	collection := env.createCollection(t, owner.ID, "Roster")
	env.grant(t, collection.ID, alice.ID, models.PermissionView)

	usernames, err := env.sharing.GetSharedUsers(ctx, owner.ID, collection.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames)

	// Only the owner may introspect shares.
	_, err = env.sharing.GetSharedUsers(ctx, alice.ID, collection.ID)
	assert.Equal(t, models.ErrCollectionAccessDenied, err)
}
