package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
)

type recordingEmailSender struct {
	sent chan sentEmail
}

type sentEmail struct {
	to       string
	username string
	token    string
}

func newRecordingEmailSender() *recordingEmailSender {
	return &recordingEmailSender{sent: make(chan sentEmail, 4)}
}

func (r *recordingEmailSender) SendVerificationEmail(ctx context.Context, to, username, token string) error {
	r.sent <- sentEmail{to: to, username: username, token: token}
	return nil
}

func (r *recordingEmailSender) waitForEmail(t *testing.T) sentEmail {
	t.Helper()
	select {
	case email := <-r.sent:
		return email
	case <-time.After(2 * time.Second):
		t.Fatal("no verification email sent")
		return sentEmail{}
	}
}

func TestUserService_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sender := newRecordingEmailSender()
	users := NewUserService(env.userRepo, env.collectionRepo, env.tokenRepo, sender)

	user, err := users.Register(ctx, &models.RegisterRequest{
		Username: "Newcomer",
		Email:    "New@Example.com",
		Password: "long-enough",
	})
	require.NoError(t, err)

	t.Run("account starts inactive with normalized identity", func(t *testing.T) {
		assert.Equal(t, "newcomer", user.Username)
		assert.Equal(t, "new@example.com", user.Email)
		assert.False(t, user.IsActive)
		assert.NotEmpty(t, user.APIKey)
	})

	t.Run("default collections are seeded", func(t *testing.T) {
		collections, err := env.collectionRepo.ListOwned(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, collections, 6)

		titles := make([]string, 0, len(collections))
		for _, c := range collections {
			titles = append(titles, c.Title)
			assert.False(t, c.IsLinkShareable)
		}
		assert.Contains(t, titles, "Journal")
		assert.Contains(t, titles, "Task Manager")
	})

	t.Run("login blocked until verified", func(t *testing.T) {
		_, err := users.Login(ctx, &models.LoginRequest{Username: "newcomer", Password: "long-enough"})
		assert.Equal(t, models.ErrAccountInactive, err)
	})

	email := sender.waitForEmail(t)

	t.Run("verification email carries the plaintext token", func(t *testing.T) {
		assert.Equal(t, "new@example.com", email.to)
		assert.NotEmpty(t, email.token)
	})

	t.Run("consuming the token activates the account", func(t *testing.T) {
		verified, err := users.VerifyEmail(ctx, email.token)
		require.NoError(t, err)
		assert.True(t, verified.IsActive)
	})

	t.Run("token is single use", func(t *testing.T) {
		_, err := users.VerifyEmail(ctx, email.token)
		assert.Equal(t, models.ErrTokenUsed, err)
	})

	t.Run("bogus token not found", func(t *testing.T) {
		_, err := users.VerifyEmail(ctx, "deadbeef")
		assert.Equal(t, models.ErrTokenNotFound, err)
	})
}

func TestUserService_RegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.collectionRepo, env.tokenRepo, nil)

	_, err := users.Register(ctx, &models.RegisterRequest{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "long-enough",
	})
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := users.Register(ctx, &models.RegisterRequest{
			Username: "TAKEN",
			Email:    "other@example.com",
			Password: "long-enough",
		})
		assert.Equal(t, models.ErrUsernameExists, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := users.Register(ctx, &models.RegisterRequest{
			Username: "someone-else",
			Email:    "taken@example.com",
			Password: "long-enough",
		})
		assert.Equal(t, models.ErrEmailExists, err)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := users.Register(ctx, &models.RegisterRequest{
			Username: "short-pass",
			Email:    "short@example.com",
			Password: "short",
		})
		assert.Equal(t, models.ErrPasswordTooShort, err)
	})

	t.Run("invalid username", func(t *testing.T) {
		_, err := users.Register(ctx, &models.RegisterRequest{
			Username: "no spaces allowed",
			Email:    "spaces@example.com",
			Password: "long-enough",
		})
		assert.Equal(t, models.ErrInvalidUsername, err)
	})
}

func TestUserService_LoginRotatesAPIKey(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.collectionRepo, env.tokenRepo, nil)

	user := env.createUser(t, "rotator")
	firstKey := user.APIKey

	response, err := users.Login(ctx, &models.LoginRequest{Username: "rotator", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, response.APIKey)

	t.Run("new key authenticates", func(t *testing.T) {
		got, err := users.GetByAPIKey(ctx, response.APIKey)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("old key stops working", func(t *testing.T) {
		_, err := users.GetByAPIKey(ctx, firstKey)
		assert.Equal(t, models.ErrInvalidAPIKey, err)
	})

	t.Run("wrong password rejected without detail", func(t *testing.T) {
		_, err := users.Login(ctx, &models.LoginRequest{Username: "rotator", Password: "wrong-horse"})
		assert.Equal(t, models.ErrInvalidLogin, err)

		_, err = users.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "wrong-horse"})
		assert.Equal(t, models.ErrInvalidLogin, err)
	})
}

func TestUserService_DeactivateAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := NewUserService(env.userRepo, env.collectionRepo, env.tokenRepo, nil)

	user := env.createUser(t, "leaver")
	collection := env.createCollection(t, user.ID, "Keepsakes")
	task, err := env.tasks.CreateTask(ctx, user.ID, &models.CreateTaskRequest{
		CollectionID: collection.ID,
		Title:        "Pack",
	})
	require.NoError(t, err)

	t.Run("deactivation blocks authentication but keeps content", func(t *testing.T) {
		require.NoError(t, users.Deactivate(ctx, user.ID))

		_, err := users.GetByAPIKey(ctx, user.APIKey)
		assert.Equal(t, models.ErrAccountInactive, err)

		stored, err := env.collectionRepo.GetByID(ctx, collection.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored)
	})

	t.Run("deletion cascades through the content tree", func(t *testing.T) {
		require.NoError(t, users.DeleteAccount(ctx, user.ID))

		gone, err := env.userRepo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		storedCollection, err := env.collectionRepo.GetByID(ctx, collection.ID)
		require.NoError(t, err)
		assert.Nil(t, storedCollection)

		storedTask, err := env.taskRepo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, storedTask)
	})
}
