package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
)

func TestAccessResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	viewer := env.createUser(t, "viewer")
	editor := env.createUser(t, "editor")
	stranger := env.createUser(t, "stranger")

	collection := env.createCollection(t, owner.ID, "Journal")
	env.grant(t, collection.ID, viewer.ID, models.PermissionView)
	env.grant(t, collection.ID, editor.ID, models.PermissionEdit)

	t.Run("owner gets read and write", func(t *testing.T) {
		for _, level := range []AccessLevel{AccessRead, AccessWrite} {
			d, err := env.resolver.Resolve(ctx, owner.ID, collection, level)
			require.NoError(t, err)
			assert.True(t, d.Allowed)
		}
	})

	t.Run("view grant allows read but not write", func(t *testing.T) {
		d, err := env.resolver.Resolve(ctx, viewer.ID, collection, AccessRead)
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		d, err = env.resolver.Resolve(ctx, viewer.ID, collection, AccessWrite)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})

	t.Run("edit grant allows read and write", func(t *testing.T) {
		for _, level := range []AccessLevel{AccessRead, AccessWrite} {
			d, err := env.resolver.Resolve(ctx, editor.ID, collection, level)
			require.NoError(t, err)
			assert.True(t, d.Allowed)
		}
	})

	t.Run("no grant denies everything", func(t *testing.T) {
		d, err := env.resolver.Resolve(ctx, stranger.ID, collection, AccessRead)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})

	t.Run("nil collection denies", func(t *testing.T) {
		d, err := env.resolver.Resolve(ctx, owner.ID, nil, AccessRead)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})
}

func TestAccessResolver_LinkSharing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	stranger := env.createUser(t, "stranger")

	t.Run("link share with view permission grants read only", func(t *testing.T) {
		collection := env.createCollection(t, owner.ID, "Public Notes")
		env.enableLinkSharing(t, collection, models.PermissionView)

		d, err := env.resolver.Resolve(ctx, stranger.ID, collection, AccessRead)
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		d, err = env.resolver.Resolve(ctx, stranger.ID, collection, AccessWrite)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})

	t.Run("link share with edit permission grants write", func(t *testing.T) {
		collection := env.createCollection(t, owner.ID, "Open Board")
		env.enableLinkSharing(t, collection, models.PermissionEdit)

		d, err := env.resolver.Resolve(ctx, stranger.ID, collection, AccessWrite)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("explicit grant wins over link permission", func(t *testing.T) {
		// A view grant caps the user at read even when the link would
		// allow edit.
		collection := env.createCollection(t, owner.ID, "Capped")
		env.enableLinkSharing(t, collection, models.PermissionEdit)

		capped := env.createUser(t, "capped")
		env.grant(t, collection.ID, capped.ID, models.PermissionView)

		d, err := env.resolver.Resolve(ctx, capped.ID, collection, AccessWrite)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})
}

func TestAccessResolver_SoftDeletedCollection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	editor := env.createUser(t, "editor")

	collection := env.createCollection(t, owner.ID, "Doomed")
	env.grant(t, collection.ID, editor.ID, models.PermissionEdit)
	env.enableLinkSharing(t, collection, models.PermissionEdit)

	require.NoError(t, env.collectionRepo.SoftDelete(ctx, collection.ID))
	deleted, err := env.collectionRepo.GetByID(ctx, collection.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	// Nothing survives the soft delete, not even the owner.
	for name, actorID := range map[string]string{
		"owner":  owner.ID,
		"editor": editor.ID,
	} {
		d, err := env.resolver.Resolve(ctx, actorID, deleted, AccessRead)
		require.NoError(t, err)
		assert.False(t, d.Allowed, "actor %s", name)
	}
}
