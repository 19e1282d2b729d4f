package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollection(t *testing.T) {
	t.Run("creates active collection with share token", func(t *testing.T) {
		c, err := NewCollection("owner-1", "  Journal  ")
		require.NoError(t, err)

		assert.Equal(t, "Journal", c.Title)
		assert.Equal(t, "owner-1", c.OwnerID)
		assert.True(t, c.Active)
		assert.False(t, c.IsLinkShareable)
		assert.Equal(t, PermissionView, c.SharePermission)
		assert.Len(t, c.ShareToken, 64)
	})

	t.Run("requires title", func(t *testing.T) {
		_, err := NewCollection("owner-1", "   ")
		assert.Equal(t, ErrCollectionTitleRequired, err)
	})

	t.Run("requires owner", func(t *testing.T) {
		_, err := NewCollection("", "Journal")
		assert.Equal(t, ErrCollectionOwnerRequired, err)
	})

	t.Run("tokens are unique per collection", func(t *testing.T) {
		a, err := NewCollection("owner-1", "A")
		require.NoError(t, err)
		b, err := NewCollection("owner-1", "B")
		require.NoError(t, err)
		assert.NotEqual(t, a.ShareToken, b.ShareToken)
	})
}

func TestCollection_SetLinkSharing(t *testing.T) {
	c, err := NewCollection("owner-1", "Journal")
	require.NoError(t, err)
	token := c.ShareToken

	c.SetLinkSharing(true, PermissionEdit)
	assert.True(t, c.IsLinkShareable)
	assert.Equal(t, PermissionEdit, c.SharePermission)
	assert.Equal(t, token, c.ShareToken)

	c.SetLinkSharing(false, PermissionView)
	assert.False(t, c.IsLinkShareable)
	assert.Equal(t, token, c.ShareToken)
}

func TestIsValidPermission(t *testing.T) {
	assert.True(t, IsValidPermission("view"))
	assert.True(t, IsValidPermission("edit"))
	assert.False(t, IsValidPermission("admin"))
	assert.False(t, IsValidPermission(""))
	assert.False(t, IsValidPermission("VIEW"))
}
