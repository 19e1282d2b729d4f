package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
)

func TestCollectionService_ListingExcludesLinkOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	grantee := env.createUser(t, "grantee")
	visitor := env.createUser(t, "visitor")

	granted := env.createCollection(t, owner.ID, "Granted")
	env.grant(t, granted.ID, grantee.ID, models.PermissionView)

	linked := env.createCollection(t, owner.ID, "Link Only")
	env.enableLinkSharing(t, linked, models.PermissionEdit)

	t.Run("grantee lists only the granted collection", func(t *testing.T) {
		collections, err := env.collections.ListCollections(ctx, grantee.ID)
		require.NoError(t, err)
		require.Len(t, collections, 1)
		assert.Equal(t, granted.ID, collections[0].ID)
		assert.False(t, collections[0].IsOwner)
	})

	t.Run("link-shareable collection never appears in listings", func(t *testing.T) {
		collections, err := env.collections.ListCollections(ctx, visitor.ID)
		require.NoError(t, err)
		assert.Empty(t, collections)
	})

	t.Run("but the same visitor can fetch it directly by id", func(t *testing.T) {
		collection, err := env.collections.GetCollection(ctx, linked.ID, visitor.ID)
		require.NoError(t, err)
		assert.Equal(t, linked.ID, collection.ID)
		assert.False(t, collection.IsOwner)
	})

	t.Run("owner lists both", func(t *testing.T) {
		collections, err := env.collections.ListCollections(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, collections, 2)
		for _, c := range collections {
			assert.True(t, c.IsOwner)
		}
	})
}

func TestCollectionService_GetCollection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	stranger := env.createUser(t, "stranger")
	collection := env.createCollection(t, owner.ID, "Private")

	t.Run("denied read surfaces as not found", func(t *testing.T) {
		_, err := env.collections.GetCollection(ctx, collection.ID, stranger.ID)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})

	t.Run("missing id surfaces the same way", func(t *testing.T) {
		_, err := env.collections.GetCollection(ctx, "no-such-id", stranger.ID)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})
}

func TestCollectionService_GetByToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")

	t.Run("token resolves only while link sharing is on", func(t *testing.T) {
		collection := env.createCollection(t, owner.ID, "Toggled")
		_, err := env.collections.GetCollectionByToken(ctx, collection.ShareToken)
		assert.Equal(t, models.ErrCollectionNotFound, err)

		env.enableLinkSharing(t, collection, models.PermissionView)
		got, err := env.collections.GetCollectionByToken(ctx, collection.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, collection.ID, got.ID)

		collection.SetLinkSharing(false, collection.SharePermission)
		require.NoError(t, env.collectionRepo.Update(ctx, collection))
		_, err = env.collections.GetCollectionByToken(ctx, collection.ShareToken)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})

	t.Run("token is stable across toggles", func(t *testing.T) {
		collection := env.createCollection(t, owner.ID, "Stable")
		token := collection.ShareToken

		env.enableLinkSharing(t, collection, models.PermissionView)
		collection.SetLinkSharing(false, models.PermissionView)
		require.NoError(t, env.collectionRepo.Update(ctx, collection))
		env.enableLinkSharing(t, collection, models.PermissionEdit)

		got, err := env.collections.GetCollectionByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, collection.ID, got.ID)
	})
}

func TestCollectionService_UpdateIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	editor := env.createUser(t, "editor")
	stranger := env.createUser(t, "stranger")

	collection := env.createCollection(t, owner.ID, "Metadata")
	env.grant(t, collection.ID, editor.ID, models.PermissionEdit)

	newTitle := "Renamed"
	req := &models.UpdateCollectionRequest{Title: &newTitle}

	t.Run("edit grantee cannot update the collection itself", func(t *testing.T) {
		_, err := env.collections.UpdateCollection(ctx, collection.ID, editor.ID, req)
		assert.Equal(t, models.ErrCollectionAccessDenied, err)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := env.collections.UpdateCollection(ctx, collection.ID, stranger.ID, req)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})

	t.Run("owner updates", func(t *testing.T) {
		updated, err := env.collections.UpdateCollection(ctx, collection.ID, owner.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})
}

func TestCollectionService_SoftDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	grantee := env.createUser(t, "grantee")

	collection := env.createCollection(t, owner.ID, "Ephemeral")
	env.grant(t, collection.ID, grantee.ID, models.PermissionEdit)
	env.enableLinkSharing(t, collection, models.PermissionEdit)
	token := collection.ShareToken

	require.NoError(t, env.collections.DeleteCollection(ctx, collection.ID, owner.ID))

	t.Run("invisible to direct access for everyone including owner", func(t *testing.T) {
		for _, actorID := range []string{owner.ID, grantee.ID} {
			_, err := env.collections.GetCollection(ctx, collection.ID, actorID)
			assert.Equal(t, models.ErrCollectionNotFound, err)
		}
	})

	t.Run("gone from listings", func(t *testing.T) {
		for _, actorID := range []string{owner.ID, grantee.ID} {
			collections, err := env.collections.ListCollections(ctx, actorID)
			require.NoError(t, err)
			assert.Empty(t, collections)
		}
	})

	t.Run("share token no longer resolves", func(t *testing.T) {
		_, err := env.collections.GetCollectionByToken(ctx, token)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		err := env.collections.DeleteCollection(ctx, collection.ID, owner.ID)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})
}
