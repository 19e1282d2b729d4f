package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/repository"
)

// testEnv wires real repositories on an in-memory database
type testEnv struct {
	userRepo         *repository.UserRepository
	collectionRepo   *repository.CollectionRepository
	grantRepo        *repository.SharedGrantRepository
	taskRepo         *repository.TaskRepository
	noteRepo         *repository.NoteRepository
	notificationRepo *repository.NotificationRepository
	tokenRepo        *repository.VerificationTokenRepository

	resolver      *AccessResolver
	collections   *CollectionService
	sharing       *SharingService
	tasks         *TaskService
	notes         *NoteService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		userRepo:         repository.NewUserRepository(db),
		collectionRepo:   repository.NewCollectionRepository(db),
		grantRepo:        repository.NewSharedGrantRepository(db),
		taskRepo:         repository.NewTaskRepository(db),
		noteRepo:         repository.NewNoteRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		tokenRepo:        repository.NewVerificationTokenRepository(db),
	}

	env.resolver = NewAccessResolver(env.grantRepo)
	env.collections = NewCollectionService(env.collectionRepo, env.taskRepo, env.resolver)
	env.notifications = NewNotificationService(env.notificationRepo, nil)
	env.sharing = NewSharingService(env.collectionRepo, env.grantRepo, env.userRepo, env.notifications, "http://localhost:3000")
	env.tasks = NewTaskService(env.taskRepo, env.collectionRepo, env.resolver)
	env.notes = NewNoteService(env.noteRepo, env.taskRepo, env.collectionRepo, env.resolver)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := models.NewUser(username, username+"@example.com")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("correct-horse"))
	user.IsActive = true
	require.NoError(t, e.userRepo.Add(context.Background(), user))
	return user
}

func (e *testEnv) createCollection(t *testing.T, ownerID, title string) *models.Collection {
	t.Helper()

	collection, err := models.NewCollection(ownerID, title)
	require.NoError(t, err)
	require.NoError(t, e.collectionRepo.Add(context.Background(), collection))
	return collection
}

func (e *testEnv) grant(t *testing.T, collectionID, userID string, permission models.Permission) {
	t.Helper()

	g := models.NewSharedGrant(collectionID, userID, permission)
	require.NoError(t, e.grantRepo.Upsert(context.Background(), g))
}

func (e *testEnv) enableLinkSharing(t *testing.T, c *models.Collection, permission models.Permission) {
	t.Helper()

	c.SetLinkSharing(true, permission)
	require.NoError(t, e.collectionRepo.Update(context.Background(), c))
}
